package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage generated logos",
	}

	var favoritesOnly bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List generated logos, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.studio.History().List(cmd.Context(), favoritesOnly)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				mutedColor.Fprintln(cmd.OutOrStdout(), "no history")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tFAV\tPROMPT")
			for _, it := range items {
				fav := ""
				if it.Favorite {
					fav = "★"
				}
				created := time.UnixMilli(it.Timestamp).Local().Format("2006-01-02 15:04")
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, created, fav, preview(it.Config.Prompt, 48))
			}
			return tw.Flush()
		},
	}
	list.Flags().BoolVar(&favoritesOnly, "favorites", false, "Only show favorites")

	favorite := &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle the favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.studio.History().ToggleFavorite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "removed from favorites"
			if item.Favorite {
				state = "added to favorites"
			}
			printSuccess(cmd.OutOrStdout(), "%s %s", item.ID, state)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.studio.History().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "deleted %s", args[0])
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.studio.History().Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "history cleared")
			return nil
		},
	}

	var out string
	export := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a history entry's image to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.studio.History().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err := writeImage(item.ImageURL, out, time.UnixMilli(item.Timestamp))
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "saved %s", path)
			return nil
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "Output file (default: logo-<timestamp>.<ext>)")

	remix := &cobra.Command{
		Use:   "remix <id>",
		Short: "Use an entry's settings and image as the next reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.studio.Remix(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "next generation will use %s as reference", args[0])
			accentColor.Fprintf(cmd.OutOrStdout(), "  concept: %s\n", preview(cfg.Prompt, 60))
			return nil
		},
	}

	cmd.AddCommand(list, favorite, del, clearCmd, export, remix)
	return cmd
}
