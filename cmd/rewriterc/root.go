package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
)

// newRootCmd builds the command tree. Console output goes to out.
func newRootCmd(out io.Writer) *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Bulk, idempotent dictionary rewriting of non-English text in source trees",
		Long: `rewriterc walks a source tree and replaces text in a target script (Korean
Hangul by default) with English using ordered dictionaries of literal phrases,
particles and regular expressions. Running it twice never changes anything
the first run already converted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zerolog.WarnLevel
			if o.Debug {
				level = zerolog.DebugLevel
			}
			o.Logger = log.New(out, level)
			cmd.SetContext(log.NewContext(cmd.Context(), o.Logger))

			if cmd.Annotations[commands.AnnotationSkipConfig] == "true" {
				return nil
			}
			return o.Load(cmd.Context())
		},
	}
	rootCmd.SetOut(out)

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewConvertCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRulesCmd(o),
		commands.NewVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".rewriterc.yaml", "config file path (.yaml, .json or .hcl)")
	cmd.PersistentFlags().StringVar(&o.Root, "root", "", "directory to convert, overrides the config")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}
