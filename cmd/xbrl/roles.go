package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"xbrl_statements/pkg/core/xbrl"
)

func newRolesCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "roles <instance.xml>",
		Short: "List the statement roles of a filing",
		Long:  `List the presentation roles of a filing in document order. Any word of a role's friendly name works as a query.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := root.setup(cmd)
			if err != nil {
				return err
			}
			paths, err := xbrl.LocateFiling(args[0])
			if err != nil {
				return err
			}
			filing, err := xbrl.LoadFiling(paths, rt.cfg.LoadOptions(), rt.log)
			if err != nil {
				return err
			}

			roles := filing.Presentation().Roles()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(roles)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROLE\tURI")
			for _, r := range roles {
				fmt.Fprintf(tw, "%s\t%s\n", r.FriendlyName, r.URI)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
