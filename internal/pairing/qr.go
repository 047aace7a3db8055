package pairing

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"styrby/internal/domain"
)

// QRPNG renders the payload's deep link as a PNG of size x size pixels.
func QRPNG(p domain.PairingPayload, size int) ([]byte, error) {
	return qrcode.Encode(EncodeURL(p), qrcode.Medium, size)
}

// QRTerminal renders the payload's deep link as a block-character QR
// code for display in a terminal.
func QRTerminal(p domain.PairingPayload) (string, error) {
	q, err := qrcode.New(EncodeURL(p), qrcode.Medium)
	if err != nil {
		return "", err
	}

	bitmap := q.Bitmap()
	var b strings.Builder
	// Two bitmap rows per text line via half-blocks keeps the code
	// roughly square in a terminal.
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
