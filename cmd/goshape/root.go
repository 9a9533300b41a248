package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/source"
)

type rootOpts struct {
	verbose    bool
	format     string
	lang       string
	maxDepth   int
	strictKeys bool
}

func newRootCmd() *cobra.Command {
	opt := &rootOpts{}
	v := viper.New()
	v.SetEnvPrefix("goshape")
	v.AutomaticEnv()
	v.SetDefault("lang", "en")
	v.SetDefault("format", "")

	cmd := &cobra.Command{
		Use:           "goshape",
		Short:         "Validate and re-encode documents against data shapes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			logrus.SetOutput(cmd.ErrOrStderr())
			if opt.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			if !cmd.Flags().Changed("lang") {
				opt.lang = v.GetString("lang")
			}
			if !cmd.Flags().Changed("format") {
				opt.format = v.GetString("format")
			}
		},
	}
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opt.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&opt.format, "format", "f", "", "input format: json or yaml (default from GOSHAPE_FORMAT or the file extension)")
	pf.StringVar(&opt.lang, "lang", "en", "message language: en or ja (default from GOSHAPE_LANG)")
	pf.IntVar(&opt.maxDepth, "max-depth", source.DefaultMaxDepth, "maximum nesting depth of the input")
	pf.BoolVar(&opt.strictKeys, "strict-keys", false, "reject objects with duplicate keys")

	cmd.AddCommand(newShapesCmd(), newDescribeCmd(), newDecodeCmd(opt), newEncodeCmd(opt))
	return cmd
}

func (o *rootOpts) shapeOptions() []goshape.Option {
	src := []source.Option{source.WithMaxDepth(o.maxDepth)}
	if o.strictKeys {
		src = append(src, source.WithStrictKeys())
	}
	return []goshape.Option{goshape.WithLanguage(o.lang), goshape.WithSourceOptions(src...)}
}

// input reads the named file, or stdin for "" and "-", and resolves its format.
func (o *rootOpts) input(cmd *cobra.Command, name string) ([]byte, source.Format, error) {
	var (
		b   []byte
		err error
	)
	if name == "" || name == "-" {
		b, err = io.ReadAll(cmd.InOrStdin())
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, "", errors.Wrap(err, "read input")
	}
	format := o.format
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(name), ".")
	}
	if format == "" {
		format = string(source.FormatJSON)
	}
	f, err := source.ParseFormat(format)
	if err != nil {
		return nil, "", err
	}
	logrus.WithFields(logrus.Fields{"input": name, "format": f, "bytes": len(b)}).Debug("read input")
	return b, f, nil
}
