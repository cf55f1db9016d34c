package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

var log = logging.MustGetLogger("jpick")

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} [%{module}] [%{level}] %{message}`,
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling below).
	signal.Ignore(syscall.SIGPIPE)

	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// stdout is a pipe and something closed it (e.g. 'head' or 'less').
			// In this case we don't want to complain.
			return
		}
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{in: in, out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:   "jpick",
		Short: "Select, remove or replace parts of JSON documents as they stream by",
		Long: `jpick reads JSON from stdin and processes it incrementally, so that
documents of any size can be handled with memory proportional to their
nesting depth.

Values are selected by their path: the keys and array indices leading to
them joined with a separator (default "."), e.g. "store.book.0.title".`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	a.settings.bindFlags(rootCmd.PersistentFlags())

	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newPickCmd(a))
	rootCmd.AddCommand(newIgnoreCmd(a))
	rootCmd.AddCommand(newReplaceCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newValuesCmd(a))

	return rootCmd
}

// app holds what the commands share: their input and output and the
// settings from flags and the config file.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	settings settings
	level    logging.Level
}

// setup loads the config file, applies it under the flags and sets up
// logging.
func (a *app) setup(cmd *cobra.Command) error {
	if path := a.settings.ConfigFile; path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return err
		}
		a.settings.applyConfig(cfg, cmd.Flags())
	}
	level, err := logging.LogLevel(a.settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", a.settings.LogLevel)
	}
	backend := logging.NewBackendFormatter(logging.NewLogBackend(a.errOut, "", 0), logFormat)
	logging.SetBackend(backend).SetLevel(level, "")
	a.level = level
	if a.settings.ConfigFile != "" {
		log.Debugf("loaded config from %s", a.settings.ConfigFile)
	}
	return nil
}
