// Package qr encodes WireGuard client configs as QR codes so mobile apps
// can import them by scanning.
package qr

import (
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultSize renders every QR module as a 5x5 pixel block. Negative sizes
// are pixels per module, positive sizes are the total image width.
const DefaultSize = -5

// level is the error correction level. A full client config is close to
// the capacity of the larger levels, so the lowest one keeps the symbol small.
const level = qrcode.Low

// PNG returns content encoded as a PNG image.
func PNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, level, size)
	if err != nil {
		return nil, fmt.Errorf("encoding QR code: %w", err)
	}
	return png, nil
}

// WritePNG writes content as a PNG image to path with 0600 permissions,
// since the encoded config contains a private key.
func WritePNG(content, path string, size int) error {
	png, err := PNG(content, size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, png, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Terminal returns content as a QR code drawn with Unicode half blocks,
// suitable for printing to a terminal.
func Terminal(content string) (string, error) {
	q, err := qrcode.New(content, level)
	if err != nil {
		return "", fmt.Errorf("encoding QR code: %w", err)
	}
	return q.ToSmallString(false), nil
}
