package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"queuepanel/internal/panel"
)

func newEventsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "events",
		Short:       "List the host events the panel reacts to",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			events := panel.SupportedEvents()
			if jsonOutput {
				out := make([]map[string]string, 0, len(events))
				for _, ev := range events {
					out = append(out, map[string]string{"role": ev[0], "kind": ev[1]})
				}
				return writeJSON(cmd, out)
			}
			rows := make([][]string, 0, len(events))
			for _, ev := range events {
				rows = append(rows, []string{ev[0], ev[1]})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Role", "Kind"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
