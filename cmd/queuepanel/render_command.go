package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"queuepanel/internal/panel"
	"queuepanel/internal/protocol"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var width int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "render <snapshot.json|->",
		Short: "Render a recorded updateQueue message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}

			var data []byte
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read snapshot: %w", err)
			}

			event, err := protocol.DecodeEvent(data)
			if err != nil && !errors.Is(err, protocol.ErrUnknownType) {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			if event.Type != protocol.TypeUpdateQueue || event.Update == nil {
				return fmt.Errorf("decode snapshot: expected an %s message, got %q", protocol.TypeUpdateQueue, event.Type)
			}

			renderer := panel.NewRenderer(cfg.Panel.RecentLimit, nil, logger)
			u := event.Update
			view := renderer.ApplySnapshot(u.State, u.Items, u.Statistics, u.CanRepeat)
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			fmt.Fprint(cmd.OutOrStdout(), view.Render(width))
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 100, "Render width in columns")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the derived view as JSON")
	return cmd
}
