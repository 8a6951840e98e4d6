package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shelfmark/shelfmark/internal/schema"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the metadata contract the AI provider is held to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := schema.Default()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "contract version %s\n\n", reg.Version())

			fmt.Fprintln(out, "edition fields:")
			printFields(cmd, reg.EditionFields())

			fmt.Fprintln(out, "\noriginal work fields:")
			printFields(cmd, reg.OriginalFields())

			if c := reg.Confidence(); c.Type != "" {
				fmt.Fprintf(out, "\nconfidence: %s", c.Type)
				if len(c.Range) == 2 {
					fmt.Fprintf(out, " in [%v, %v]", c.Range[0], c.Range[1])
				}
				fmt.Fprintln(out)
			}

			if rules := reg.Rules(); len(rules) > 0 {
				fmt.Fprintln(out, "\nextraction rules:")
				for _, r := range rules {
					fmt.Fprintf(out, "  - %s\n", r)
				}
			}
			return nil
		},
	}
}

func printFields(cmd *cobra.Command, fields []schema.Field) {
	out := cmd.OutOrStdout()
	for _, f := range fields {
		required := ""
		if !f.Optional {
			required = " (required)"
		}
		fmt.Fprintf(out, "  %-14s %-14s %s%s\n", f.Name, f.Type, f.Label, required)
	}
}
