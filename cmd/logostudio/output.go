package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/shouni/gemini-logo-kit/pkg/imgutil"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	accentColor  = color.New(color.FgCyan)
)

func printSuccess(w io.Writer, format string, a ...any) {
	successColor.Fprint(w, "✓ ")
	fmt.Fprintf(w, format+"\n", a...)
}

func printFailure(w io.Writer, format string, a ...any) {
	failureColor.Fprint(w, "✗ ")
	fmt.Fprintf(w, format+"\n", a...)
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// writeImage は data URI をデコードしてファイルに書き込み、書き込んだパスを返します。
// path が空の場合は logo-<時刻>.<拡張子> をカレントディレクトリに作成します。
func writeImage(dataURI, path string, now time.Time) (string, error) {
	mime, data, err := imgutil.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	ext, ok := extensions[mime]
	if !ok {
		ext = ".png"
	}
	if path == "" {
		path = fmt.Sprintf("logo-%s%s", now.Format("20060102-150405"), ext)
	} else if filepath.Ext(path) == "" {
		path += ext
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("画像の書き込みに失敗しました: %w", err)
	}
	return path, nil
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
