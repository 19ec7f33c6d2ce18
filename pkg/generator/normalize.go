package generator

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var retryHintPattern = regexp.MustCompile(`(?i)retry in (\d+\.?\d*)`)

type normalizeRule struct {
	needles []string
	message func(raw string) string
}

func fixed(msg string) func(string) string {
	return func(string) string { return msg }
}

// normalizeRules は上から順に評価され、最初に一致した規則のメッセージを返します。
// 部分一致は大文字小文字を区別します。
var normalizeRules = []normalizeRule{
	{[]string{"403", "PERMISSION_DENIED"}, fixed("Invalid API key or no access to this model.")},
	{[]string{"404", "not found"}, fixed("Model not found. You may not have access to this model.")},
	{[]string{"quota", "exceeded", "429", "RESOURCE_EXHAUSTED"}, quotaMessage},
	{[]string{"SAFETY", "blocked"}, fixed("Content blocked by safety filters. Adjust your prompt.")},
	{[]string{"INVALID_ARGUMENT"}, fixed("Invalid request. Check your prompt and settings.")},
	{[]string{"500", "503", "INTERNAL"}, fixed("AI service temporarily unavailable. Please try again.")},
	{[]string{"Failed to fetch", "NetworkError", "network"}, fixed("Network error. Check your connection and try again.")},
	{[]string{"timeout", "DEADLINE_EXCEEDED"}, fixed("Request timed out. Try a simpler prompt or try again.")},
}

// NormalizeMessage は生のエラーメッセージをユーザー向けの定型文に変換します。
// どの規則にも一致しない場合は入力をそのまま返します。
func NormalizeMessage(raw string) string {
	for _, rule := range normalizeRules {
		for _, needle := range rule.needles {
			if strings.Contains(raw, needle) {
				return rule.message(raw)
			}
		}
	}
	return raw
}

// NormalizeError は err のメッセージを NormalizeMessage で変換します。
func NormalizeError(err error) string {
	if err == nil || err.Error() == "" {
		return msgUnknownError
	}
	return NormalizeMessage(err.Error())
}

// quotaMessage は "retry in N" の待機秒数が読み取れれば切り上げて案内します。
// 読み取れない場合は一般的な待機の案内に退避します。
func quotaMessage(raw string) string {
	if m := retryHintPattern.FindStringSubmatch(raw); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			if n := int(math.Ceil(secs)); n > 0 {
				return "API quota exceeded. Try again in ~" + strconv.Itoa(n) + "s."
			}
		}
	}
	return "API quota exceeded. Please wait and try again."
}
