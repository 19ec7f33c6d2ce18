package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(a *app) *cobra.Command {
	var (
		model      string
		maxHistory int
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the model and history size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := a.studio.Settings(ctx)
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("model") {
				settings.Model = model
				changed = true
			}
			if cmd.Flags().Changed("max-history") {
				settings.MaxHistoryItems = maxHistory
				changed = true
			}
			if changed {
				if err := a.studio.SaveSettings(ctx, settings); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "settings saved")
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "model:             %s\n", settings.Model)
			fmt.Fprintf(w, "max history items: %d\n", settings.MaxHistoryItems)
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Model id (see `logostudio catalog models`)")
	cmd.Flags().IntVar(&maxHistory, "max-history", 0, "Number of history entries to keep")
	return cmd
}
