package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/spf13/pflag"

	"github.com/arnodel/jsonchunk/encoding/json"
	"github.com/arnodel/jsonchunk/transform"
)

// settings are shared by all commands.  They come from the persistent flags,
// with a config file providing values for the flags not given on the command
// line.
type settings struct {
	ConfigFile string
	LogLevel   string

	Input string // json or jsonl
	Multi bool

	PackKeys      bool
	PackStrings   bool
	PackNumbers   bool
	StreamKeys    bool
	StreamStrings bool
	StreamNumbers bool

	Separator string
	Once      bool
	MaxDepth  int

	Indent    int
	Compact   bool
	MakeArray bool
	Color     string
}

func (s *settings) bindFlags(flags *pflag.FlagSet) {
	flags.StringVar(&s.ConfigFile, "config", "", "read defaults from this YAML file")
	flags.StringVar(&s.LogLevel, "log-level", "WARNING", "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG")

	flags.StringVarP(&s.Input, "input", "i", "json", "input format: json, jsonl")
	flags.BoolVarP(&s.Multi, "multi", "m", false, "accept several top-level JSON values")

	flags.BoolVar(&s.PackKeys, "pack-keys", true, "emit object keys as one token")
	flags.BoolVar(&s.PackStrings, "pack-strings", true, "emit strings as one token")
	flags.BoolVar(&s.PackNumbers, "pack-numbers", true, "emit numbers as one token")
	flags.BoolVar(&s.StreamKeys, "stream-keys", true, "emit object keys in chunks")
	flags.BoolVar(&s.StreamStrings, "stream-strings", true, "emit strings in chunks")
	flags.BoolVar(&s.StreamNumbers, "stream-numbers", true, "emit numbers in chunks")

	flags.StringVarP(&s.Separator, "separator", "s", transform.DefaultSeparator, "separator between path entries")
	flags.BoolVar(&s.Once, "once", false, "stop filtering after the first match")
	flags.IntVar(&s.MaxDepth, "max-depth", 0, "empty the containers nested deeper than this (0 for no limit)")

	flags.IntVar(&s.Indent, "indent", 2, "indentation of the JSON output")
	flags.BoolVarP(&s.Compact, "compact", "c", false, "write each value on a single line")
	flags.BoolVarP(&s.MakeArray, "make-array", "a", false, "wrap the output values into an array")
	flags.StringVar(&s.Color, "color", "auto", "colorize output: auto, always, never")
}

// fileConfig is the layout of the config file.  Unset fields leave the flag
// defaults alone.
type fileConfig struct {
	LogLevel *string `yaml:"log_level"`

	Input *string `yaml:"input"`
	Multi *bool   `yaml:"multi"`

	PackKeys      *bool `yaml:"pack_keys"`
	PackStrings   *bool `yaml:"pack_strings"`
	PackNumbers   *bool `yaml:"pack_numbers"`
	StreamKeys    *bool `yaml:"stream_keys"`
	StreamStrings *bool `yaml:"stream_strings"`
	StreamNumbers *bool `yaml:"stream_numbers"`

	Separator *string `yaml:"separator"`
	Once      *bool   `yaml:"once"`
	MaxDepth  *int    `yaml:"max_depth"`

	Indent    *int    `yaml:"indent"`
	Compact   *bool   `yaml:"compact"`
	MakeArray *bool   `yaml:"make_array"`
	Color     *string `yaml:"color"`
}

func loadConfig(path string) (*fileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg fileConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// applyConfig copies the values set in cfg, except those overridden by a
// flag on the command line.
func (s *settings) applyConfig(cfg *fileConfig, flags *pflag.FlagSet) {
	override(flags, "log-level", cfg.LogLevel, &s.LogLevel)
	override(flags, "input", cfg.Input, &s.Input)
	override(flags, "multi", cfg.Multi, &s.Multi)
	override(flags, "pack-keys", cfg.PackKeys, &s.PackKeys)
	override(flags, "pack-strings", cfg.PackStrings, &s.PackStrings)
	override(flags, "pack-numbers", cfg.PackNumbers, &s.PackNumbers)
	override(flags, "stream-keys", cfg.StreamKeys, &s.StreamKeys)
	override(flags, "stream-strings", cfg.StreamStrings, &s.StreamStrings)
	override(flags, "stream-numbers", cfg.StreamNumbers, &s.StreamNumbers)
	override(flags, "separator", cfg.Separator, &s.Separator)
	override(flags, "once", cfg.Once, &s.Once)
	override(flags, "max-depth", cfg.MaxDepth, &s.MaxDepth)
	override(flags, "indent", cfg.Indent, &s.Indent)
	override(flags, "compact", cfg.Compact, &s.Compact)
	override(flags, "make-array", cfg.MakeArray, &s.MakeArray)
	override(flags, "color", cfg.Color, &s.Color)
}

func override[T any](flags *pflag.FlagSet, name string, v *T, dst *T) {
	if v != nil && !flags.Changed(name) {
		*dst = *v
	}
}

// parserOptions are the options of the parser reading the input.
func (s *settings) parserOptions() []json.Option {
	return []json.Option{json.WithOptions(json.Options{
		PackKeys:      s.PackKeys,
		PackStrings:   s.PackStrings,
		PackNumbers:   s.PackNumbers,
		StreamKeys:    s.StreamKeys,
		StreamStrings: s.StreamStrings,
		StreamNumbers: s.StreamNumbers,
		JSONStreaming: s.Multi,
	})}
}

// filterOptions configures filters consistently with the parser.
func (s *settings) filterOptions() []transform.Option {
	o := json.ApplyOptions(s.parserOptions()...)
	opts := []transform.Option{
		transform.WithSeparator(s.Separator),
		transform.WithPackKeys(o.PackKeys),
		transform.WithStreamKeys(o.StreamKeys),
	}
	if s.Once {
		opts = append(opts, transform.WithOnce())
	}
	return opts
}

// matcher builds the matcher of a filter command from its argument or its
// --regexp flag.
func matcher(args []string, pattern string) (transform.Matcher, error) {
	switch {
	case pattern != "" && len(args) > 0:
		return nil, fmt.Errorf("give either a path prefix or --regexp, not both")
	case pattern != "":
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid --regexp: %w", err)
		}
		return transform.PathPattern(re), nil
	case len(args) > 0:
		return transform.PathPrefix(args[0]), nil
	default:
		return nil, fmt.Errorf("a path prefix or --regexp is required")
	}
}
