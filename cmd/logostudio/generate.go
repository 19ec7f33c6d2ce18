package main

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shouni/gemini-logo-kit/pkg/domain"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		out       string
		apiKey    string
		reference string
	)
	cmd := &cobra.Command{
		Use:   "generate [concept...]",
		Short: "Generate a logo from a concept",
		Long:  "Generate a logo. Options not given on the command line are taken from the last used configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := a.studio.LastConfig(ctx)
			if err != nil {
				return err
			}
			applyConfigFlags(cmd, &cfg)
			if len(args) > 0 {
				cfg.Prompt = strings.Join(args, " ")
			}

			if cmd.Flags().Changed("reference") {
				ref, err := a.refs.Load(ctx, reference)
				if err != nil {
					return err
				}
				cfg.ReferenceImage = ref
			}

			res, item, err := a.studio.Generate(ctx, cfg, a.apiKey(apiKey))
			if err != nil {
				return err
			}
			if !res.Success {
				printFailure(cmd.ErrOrStderr(), "%s", res.Error)
				return errGenerationFailed
			}

			path, err := writeImage(res.ImageURL, out, time.Now())
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "saved %s", path)
			if item != nil {
				mutedColor.Fprintf(cmd.OutOrStdout(), "  history id: %s\n", item.ID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&out, "out", "o", "", "Output file (default: logo-<timestamp>.<ext>)")
	f.StringVar(&apiKey, "api-key", "", "API key (default: LOGOSTUDIO_API_KEY or the stored key)")
	f.StringVar(&reference, "reference", "", "Reference image: data URI, http(s) URL, local file or gs:// URI (empty clears it)")
	f.String("negative", "", "Things to avoid")
	f.String("brand", "", "Brand name")
	f.String("preset", "", "Preset id (see `logostudio catalog presets`)")
	f.String("palette", "", "Color palette id")
	f.String("style", "", "Style id")
	f.String("complexity", "", "Complexity id")
	f.String("aspect", "", "Aspect ratio (1:1, 4:3, 16:9, 9:16, 3:4)")
	return cmd
}

// applyConfigFlags は指定されたフラグだけを cfg に反映します。
func applyConfigFlags(cmd *cobra.Command, cfg *domain.LogoConfig) {
	f := cmd.Flags()
	set := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	set("negative", &cfg.NegativePrompt)
	set("brand", &cfg.BrandName)
	set("preset", &cfg.PresetID)
	set("palette", &cfg.ColorPaletteID)
	set("style", &cfg.StyleID)
	set("complexity", &cfg.ComplexityID)
	if f.Changed("aspect") {
		v, _ := f.GetString("aspect")
		cfg.AspectRatio = domain.AspectRatio(v)
	}
}
