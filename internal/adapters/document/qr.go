// Package document renders ticket QR codes and certificate PDFs.
package document

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QR code edge bounds in pixels.
const (
	DefaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

// QRCodeRenderer encodes ticket codes as PNG QR images.
type QRCodeRenderer struct {
	level qrcode.RecoveryLevel
}

func NewQRCodeRenderer() *QRCodeRenderer {
	return &QRCodeRenderer{level: qrcode.Medium}
}

// PNG returns a size x size PNG. A size of zero means DefaultQRSize.
func (r *QRCodeRenderer) PNG(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr content is empty")
	}
	if size == 0 {
		size = DefaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, fmt.Errorf("qr size %d outside [%d, %d]", size, minQRSize, maxQRSize)
	}
	png, err := qrcode.Encode(content, r.level, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
