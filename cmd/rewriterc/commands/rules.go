package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/log"
)

// NewRulesCmd creates a new rules command
func NewRulesCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the merged rule set in application order",
		Long: `Rules merges every configured dictionary and prints the resulting rules in
the exact order they are applied: literal phrases longest first, then
particles, then patterns in the order they were written. Invalid rules are
all reported at once.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs, err := o.RuleSet(cmd.Context())
			if err != nil {
				return err
			}
			return log.FromContext(cmd.Context()).Rules(rs)
		},
	}
}
