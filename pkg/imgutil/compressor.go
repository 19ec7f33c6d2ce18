package imgutil

import (
	"bytes"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
)

// CompressToJPEG は画像データ（PNG, GIF, JPEG等）をJPEG形式に圧縮します。
func CompressToJPEG(data []byte, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShrinkReference は参照画像が maxBytes を超える場合に JPEG へ再圧縮します。
// 圧縮後も小さくならない場合は元のデータを返します。
func ShrinkReference(data []byte, maxBytes, quality int) (mime string, out []byte, err error) {
	mime = DetectImageMIME(data)
	if maxBytes <= 0 || len(data) <= maxBytes {
		return mime, data, nil
	}

	compressed, err := CompressToJPEG(data, quality)
	if err != nil {
		return "", nil, err
	}
	if len(compressed) >= len(data) {
		return mime, data, nil
	}
	return "image/jpeg", compressed, nil
}
