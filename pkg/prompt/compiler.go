// Package prompt はロゴ設定から生成用の自然言語プロンプトを組み立てます。
package prompt

import (
	"strings"

	"github.com/samber/lo"

	"github.com/shouni/gemini-logo-kit/pkg/catalog"
	"github.com/shouni/gemini-logo-kit/pkg/domain"
)

const header = "Create a professional logo design."

// Compile はロゴ設定をプロバイダ非依存のプロンプト文字列に変換します。
// 縦横比とネガティブプロンプトのネイティブ指定はアダプタ側で扱うため、ここでは含めません。
func Compile(cfg domain.LogoConfig) string {
	preset := catalog.Preset(cfg.PresetID)
	color := catalog.ColorPalette(cfg.ColorPaletteID)
	style := catalog.Style(cfg.StyleID)
	complexity := catalog.Complexity(cfg.ComplexityID)

	lines := []string{
		header,
		"",
		brandLine(cfg.BrandName),
		"Concept: " + cfg.Prompt,
		"",
		"Style specifications:",
		"- " + preset.PromptModifier,
		"- " + color.PromptModifier,
		"- " + style.PromptModifier,
		"- " + complexity.PromptModifier,
		"",
		catalog.QualityPrompt,
	}

	if strings.TrimSpace(cfg.NegativePrompt) != "" {
		lines = append(lines, "", "AVOID: "+cfg.NegativePrompt)
	}

	return strings.Join(lo.Compact(lines), "\n")
}

func brandLine(brand string) string {
	if brand == "" {
		return ""
	}
	return "Brand: " + brand
}
