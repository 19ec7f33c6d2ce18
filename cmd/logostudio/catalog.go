package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-logo-kit/pkg/catalog"
	"github.com/shouni/gemini-logo-kit/pkg/domain"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "catalog [models|presets|palettes|styles|complexities|ratios|suggestions]",
		Short:     "List the built-in models and style options",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"models", "presets", "palettes", "styles", "complexities", "ratios", "suggestions"},
		// カタログの表示に設定やストアは不要です。
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			section := "models"
			if len(args) == 1 {
				section = args[0]
			}
			return printCatalog(cmd.OutOrStdout(), section)
		},
	}
}

func printCatalog(w io.Writer, section string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch section {
	case "models":
		fmt.Fprintln(tw, "ID\tLABEL\tAPI\tREFERENCE\tDESCRIPTION")
		for _, m := range catalog.Models {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n", m.ID, m.Label, m.APIType, m.SupportsReference, m.Description)
		}
	case "presets":
		fmt.Fprintln(tw, "ID\tLABEL\tDESCRIPTION")
		for _, p := range catalog.Presets {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.ID, p.Label, p.Description)
		}
	case "palettes":
		printOptions(tw, catalog.ColorPalettes)
	case "styles":
		printOptions(tw, catalog.Styles)
	case "complexities":
		printOptions(tw, catalog.Complexities)
	case "ratios":
		for _, r := range catalog.AspectRatios {
			fmt.Fprintln(tw, r)
		}
	case "suggestions":
		for _, s := range catalog.PromptSuggestions {
			fmt.Fprintln(tw, s)
		}
	default:
		return fmt.Errorf("unknown catalog section: %s", section)
	}
	return tw.Flush()
}

func printOptions(w io.Writer, options []domain.SelectOption) {
	fmt.Fprintln(w, "ID\tLABEL\tMODIFIER")
	for _, o := range options {
		fmt.Fprintf(w, "%s\t%s\t%s\n", o.ID, o.Label, o.PromptModifier)
	}
}
