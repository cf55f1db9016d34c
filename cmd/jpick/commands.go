package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/theory/jsonpath"

	"github.com/arnodel/jsonchunk/assembler"
	"github.com/arnodel/jsonchunk/encoding/json"
	"github.com/arnodel/jsonchunk/jsonl"
	"github.com/arnodel/jsonchunk/token"
	"github.com/arnodel/jsonchunk/transform"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "Print the token stream of the input, one token per line",
		Long: `Print the token stream of the input, one token per line.  With
--make-array the values are wrapped into an array as they would be when
written as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, srcErr, err := a.stream()
			if err != nil {
				return err
			}
			if a.settings.MakeArray {
				stream = token.TransformStream(stream, transform.JoinStream{})
			}
			out := bufio.NewWriter(a.out)
			count := 0
			for tok := range stream {
				if _, err := fmt.Fprintln(out, tok); err != nil {
					return err
				}
				count++
			}
			log.Infof("%d tokens", count)
			if err := out.Flush(); err != nil {
				return err
			}
			return srcErr()
		},
	}
}

func newPickCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "pick [PATH_PREFIX]",
		Short: "Keep only the values whose path matches",
		Long: `Keep only the values whose path matches, with the objects and arrays
enclosing them.  Array positions are not renumbered: a value picked from
index 3 is written at the place of the first item of its array.

The path matches if it starts with PATH_PREFIX, or if it matches the regular
expression given with --regexp.`,
		Example: `  jpick pick store.book < store.json
  jpick pick --regexp '^store\.book\.\d+\.title$' < store.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := matcher(args, pattern)
			if err != nil {
				return err
			}
			return a.run(transform.NewPick(m, a.settings.filterOptions()...))
		},
	}
	cmd.Flags().StringVarP(&pattern, "regexp", "r", "", "match paths against this regular expression")
	return cmd
}

func newIgnoreCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "ignore [PATH_PREFIX]",
		Short: "Remove the values whose path matches",
		Long: `Remove the values whose path matches, with their keys.  Everything else
is written unchanged.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := matcher(args, pattern)
			if err != nil {
				return err
			}
			return a.run(transform.NewIgnore(m, a.settings.filterOptions()...))
		},
	}
	cmd.Flags().StringVarP(&pattern, "regexp", "r", "", "match paths against this regular expression")
	return cmd
}

func newReplaceCmd(a *app) *cobra.Command {
	var pattern string
	var with string

	cmd := &cobra.Command{
		Use:   "replace [PATH_PREFIX]",
		Short: "Replace the values whose path matches",
		Long: `Replace the values whose path matches with the JSON value given with
--with (null by default).  An empty --with removes them instead.`,
		Example: `  jpick replace --with '"<redacted>"' user.password < users.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := matcher(args, pattern)
			if err != nil {
				return err
			}
			var replacement []token.Token
			if with != "" {
				opts := append(a.settings.parserOptions(), json.WithJSONStreaming(false))
				replacement, err = json.Tokenize(with, opts...)
				if err != nil {
					return fmt.Errorf("invalid --with value: %w", err)
				}
			}
			r := transform.StaticReplacement(replacement...)
			return a.run(transform.NewReplace(m, r, a.settings.filterOptions()...))
		},
	}
	cmd.Flags().StringVarP(&pattern, "regexp", "r", "", "match paths against this regular expression")
	cmd.Flags().StringVarP(&with, "with", "w", "null", "JSON value to write instead of the matched values")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the input is valid JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, srcErr, err := a.stream()
			if err != nil {
				return err
			}
			var v token.Validator
			for tok := range stream {
				if err := v.Check(tok); err != nil {
					return err
				}
			}
			if err := srcErr(); err != nil {
				return err
			}
			if err := v.Done(); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintln(a.out, "ok")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print nothing when the input is valid")
	return cmd
}

func newValuesCmd(a *app) *cobra.Command {
	var query string
	var each string

	cmd := &cobra.Command{
		Use:   "values",
		Short: "Write the input values as JSON Lines",
		Long: `Assemble the input values and write them one per line.

With --each array or --each object, the elements of the top-level array or
the values of the top-level object are written as soon as each is complete,
so a large collection is never held in memory at once.

With --query, only the nodes selected by the JSONPath query from each value
are written.`,
		Example: `  jpick values --each array < events.json
  jpick values --query '$.store.book[*].author' < store.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var path *jsonpath.Path
			if query != "" {
				var err error
				if path, err = jsonpath.Parse(query); err != nil {
					return fmt.Errorf("invalid --query: %w", err)
				}
			}
			// Numbers keep their text, unless a query needs to compare them.
			useNumber := path == nil
			var streamer *assembler.Streamer
			switch each {
			case "":
				streamer = assembler.NewValueStreamer(useNumber)
			case "array":
				streamer = assembler.NewArrayStreamer(useNumber)
			case "object":
				streamer = assembler.NewObjectStreamer(useNumber)
			default:
				return fmt.Errorf("invalid --each value: %q (use array or object)", each)
			}

			stream, srcErr, err := a.stream()
			if err != nil {
				return err
			}
			out := bufio.NewWriter(a.out)
			w := jsonl.NewWriter(out)
			for tok := range stream {
				item, ok, err := streamer.Put(tok)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				log.Debugf("value %v complete", item.Key)
				if path == nil {
					err = w.Write(item.Value)
				} else {
					for _, node := range path.Select(item.Value) {
						if err = w.Write(node); err != nil {
							break
						}
					}
				}
				if err != nil {
					return err
				}
			}
			if err := out.Flush(); err != nil {
				return err
			}
			return srcErr()
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "JSONPath query selecting what to write from each value")
	cmd.Flags().StringVarP(&each, "each", "e", "", "stream the items of the top-level value: array, object")
	return cmd
}
