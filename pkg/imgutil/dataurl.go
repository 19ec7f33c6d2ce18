package imgutil

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
)

// DefaultMIMEType は MIME 種別を特定できない場合に使う既定値です。
const DefaultMIMEType = "image/png"

const base64Marker = "base64,"

// EncodeDataURI は画像データを data:<mime>;base64,<payload> 形式に変換します。
// mime が空の場合は DefaultMIMEType を使います。
func EncodeDataURI(mime string, data []byte) string {
	if mime == "" {
		mime = DefaultMIMEType
	}
	return EncodeDataURIBase64(mime, base64.StdEncoding.EncodeToString(data))
}

// EncodeDataURIBase64 はすでに base64 化されたペイロードから data URI を組み立てます。
func EncodeDataURIBase64(mime, payload string) string {
	if mime == "" {
		mime = DefaultMIMEType
	}
	return "data:" + mime + ";base64," + payload
}

// SplitDataURI は参照画像文字列を MIME 種別と base64 ペイロードに分割します。
// "base64," を含まない文字列は全体をペイロードとみなし、
// "data:" を含まない場合や MIME が読み取れない場合は DefaultMIMEType を返します。
func SplitDataURI(uri string) (mime, payload string) {
	payload = uri
	if idx := strings.Index(uri, base64Marker); idx >= 0 {
		payload = uri[idx+len(base64Marker):]
	}

	mime = DefaultMIMEType
	if strings.Contains(uri, "data:") {
		head, _, _ := strings.Cut(uri, ";")
		if _, m, ok := strings.Cut(head, ":"); ok && m != "" {
			mime = m
		}
	}
	return mime, payload
}

// DecodeDataURI は SplitDataURI の結果をデコードしてバイト列を返します。
func DecodeDataURI(uri string) (string, []byte, error) {
	mime, payload := SplitDataURI(uri)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return mime, data, nil
}

// IsDataURI は文字列が data URI 形式かどうかを判定します。
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// SniffImageMIME はバイト列が画像であれば MIME 種別と true を返します。
func SniffImageMIME(data []byte) (string, bool) {
	mime := http.DetectContentType(data)
	return mime, strings.HasPrefix(mime, "image/")
}

// DetectImageMIME はバイト列から画像の MIME 種別を推定します。
// 画像として認識できない場合は DefaultMIMEType を返します。
func DetectImageMIME(data []byte) string {
	if mime, ok := SniffImageMIME(data); ok {
		return mime
	}
	return DefaultMIMEType
}
