//go:build debug

package debug

import "github.com/op/go-logging"

var log = logging.MustGetLogger("debug")

func Printf(msg string, args ...any) {
	log.Debugf(msg, args...)
}

const On = true
