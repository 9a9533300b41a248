package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/ast"
	"github.com/reoring/goshape/decoder"
)

func lookup(name string) (entry, error) {
	c := newCatalog()
	e, ok := c[name]
	if !ok {
		return entry{}, errors.Errorf("unknown shape %q (known: %s)", name, strings.Join(catalogNames(c), ", "))
	}
	return e, nil
}

func newShapesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the built-in shapes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			c := newCatalog()
			for _, name := range catalogNames(c) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, c[name].summary)
			}
		},
	}
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe SHAPE",
		Short: "Print a shape, its keys and fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := lookup(args[0])
			if err != nil {
				return err
			}
			if err := goshape.Compile(e.node).Check(); err != nil {
				return errors.Wrapf(err, "shape %s", args[0])
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type:   %s\n", ast.String(e.node))
			fmt.Fprintf(out, "keys:   %s\n", strings.Join(ast.KeyOf(e.node), ", "))
			fmt.Fprintf(out, "weight: %d\n", ast.Weight(e.node))
			for _, f := range ast.Fields(e.node) {
				flags := ""
				if f.Optional {
					flags += " optional"
				}
				if f.Readonly {
					flags += " readonly"
				}
				fmt.Fprintf(out, "  %s: %s%s\n", f.Key, ast.String(f.Value), flags)
			}
			return nil
		},
	}
}

func newDecodeCmd(opt *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "decode SHAPE [FILE]",
		Short: "Validate a document and print the decoded value as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, v, err := decodeInput(cmd, opt, args)
			if err != nil {
				return err
			}
			b, err := s.EncodeJSON(v)
			if err != nil {
				return errors.Wrap(err, "encode result")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newEncodeCmd(opt *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "encode SHAPE [FILE]",
		Short: "Validate a document and print its canonical JSON form",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, v, err := decodeInput(cmd, opt, args)
			if err != nil {
				return err
			}
			if !s.Is(v) {
				return errors.New("decoded value does not satisfy its shape")
			}
			b, err := s.EncodeJSON(v)
			if err != nil {
				return errors.Wrap(err, "encode")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

// decodeInput loads and decodes the input named by args. Warnings are logged;
// a Failure is printed and returned as an error.
func decodeInput(cmd *cobra.Command, opt *rootOpts, args []string) (*goshape.Shape, any, error) {
	e, err := lookup(args[0])
	if err != nil {
		return nil, nil, err
	}
	name := ""
	if len(args) == 2 {
		name = args[1]
	}
	b, format, err := opt.input(cmd, name)
	if err != nil {
		return nil, nil, err
	}
	s := goshape.Compile(e.node, opt.shapeOptions()...)
	r, err := s.DecodeFrom(format, b)
	if err != nil {
		return nil, nil, err
	}
	log := logrus.WithFields(logrus.Fields{"shape": args[0], "outcome": r.Outcome()})
	for _, w := range r.Warnings() {
		log.WithField("path", w.Path).Warn(w.Message)
	}
	if r.IsFailure() {
		printErrors(cmd, r.Errors())
		return nil, nil, errors.Errorf("%s: %d error(s)", args[0], len(r.Errors()))
	}
	log.Debug("decoded")
	v, _ := r.Value()
	return s, v, nil
}

func printErrors(cmd *cobra.Command, errs decoder.Errors) {
	for _, e := range errs {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\t%s\t%s\n", e.Path, e.Code, e.Message)
	}
}
