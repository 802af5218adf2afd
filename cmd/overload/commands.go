package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/overload/internal/log"
	"github.com/funvibe/overload/pkg/overload"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Build every function in the manifest and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.load(true)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, name := range s.lib.Names() {
				d, _ := s.lib.Get(name)
				fmt.Fprintf(tw, "%s\t%d signatures\t%d candidates\n", name, len(d.Entries()), len(d.Candidates()))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: ok\n", s.path)
			return nil
		},
	}
}

func (a *app) signaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signatures <function>",
		Short: "List a function's candidates in dispatch order",
		Long: `List a function's candidates in the order calls try them.

Candidates marked "converted" accept at least one argument only through a
registered conversion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(true)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			d, err := s.function(args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for i, c := range d.Candidates() {
				marker := ""
				if c.Converted() {
					marker = "converted"
				}
				fmt.Fprintf(tw, "%d\t%s(%s)\t%s\n", i+1, d.Name(), c, marker)
			}
			return tw.Flush()
		},
	}
}

func (a *app) callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <function> [argument...]",
		Short: "Call a function with YAML-decoded arguments",
		Long: `Call a function. Each argument is decoded as a YAML value, so 3 is a
number, '3' is a string, true is a boolean and [1, 2] is an Array.

Examples:
  overload call area 3
  overload call area 3 4
  overload call join "'a'" "[1, 2]"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(true)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			d, err := s.function(args[0])
			if err != nil {
				return err
			}
			values, err := decodeArgs(args[1:])
			if err != nil {
				return err
			}
			result, err := d.Call(values...)
			if err != nil {
				var derr *overload.DispatchError
				if errors.As(err, &derr) {
					log.Debug(log.CatCLI, "dispatch failed", "function", d.Name(), "category", derr.Category)
				}
				return err
			}
			return writeValue(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <type> <value>",
		Short: "Convert a YAML-decoded value to a registered type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(false)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			values, err := decodeArgs(args[1:])
			if err != nil {
				return err
			}
			result, err := s.typed.Convert(values[0], args[0])
			if err != nil {
				return err
			}
			return writeValue(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) typesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered types and conversions in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.load(false)
			if err != nil {
				return err
			}
			defer func() { _ = s.close() }()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "types:")
			for _, name := range s.typed.TypeNames() {
				fmt.Fprintf(out, "  %s\n", name)
			}
			conversions := s.typed.Conversions()
			if len(conversions) == 0 {
				return nil
			}
			fmt.Fprintln(out, "conversions:")
			for _, c := range conversions {
				fmt.Fprintf(out, "  %s -> %s\n", c.From, c.To)
			}
			return nil
		},
	}
}

// decodeArgs decodes each argument as a single YAML value.
func decodeArgs(args []string) ([]any, error) {
	values := make([]any, len(args))
	for i, arg := range args {
		if err := yaml.Unmarshal([]byte(arg), &values[i]); err != nil {
			return nil, fmt.Errorf("argument %d (%q): %w", i+1, arg, err)
		}
	}
	return values, nil
}

// writeValue prints v as YAML, falling back to its Go formatting for values
// YAML cannot represent.
func writeValue(w io.Writer, v any) (err error) {
	defer func() {
		// yaml.Marshal panics on funcs and channels.
		if r := recover(); r != nil {
			_, err = fmt.Fprintf(w, "%v\n", v)
		}
	}()
	data, err := yaml.Marshal(v)
	if err != nil {
		_, err = fmt.Fprintf(w, "%v\n", v)
		return err
	}
	_, err = w.Write(data)
	return err
}
