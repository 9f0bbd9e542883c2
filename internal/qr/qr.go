// Package qr renders session QR challenges as PNG images.
package qr

import qrcode "github.com/skip2/go-qrcode"

// PNG encodes the challenge string into a PNG of the given pixel size.
func PNG(challenge string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(challenge, qrcode.Medium, size)
}
