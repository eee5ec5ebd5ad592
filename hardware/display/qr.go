package display

import (
	"strings"

	"github.com/juju/errors"
	"github.com/skip2/go-qrcode"
)

// QR renders text as QR code using half block characters,
// two modules per text line.
func QR(text string, border bool, level qrcode.RecoveryLevel) ([]string, error) {
	qr, err := qrcode.New(text, level)
	if err != nil {
		return nil, errors.Annotate(err, "QR")
	}
	qr.DisableBorder = !border
	bitmap := qr.Bitmap()
	lines := make([]string, 0, (len(bitmap)+1)/2)
	b := strings.Builder{}
	for y := 0; y < len(bitmap); y += 2 {
		b.Reset()
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
		lines = append(lines, b.String())
	}
	return lines, nil
}

// QR draws code centered at line y, error when it does not fit.
func (c *Canvas) QR(y int, text string, level qrcode.RecoveryLevel) error {
	lines, err := QR(text, false, level)
	if err != nil {
		return err
	}
	if len(lines) > c.height-y || len([]rune(lines[0])) > c.width {
		return errors.Errorf("QR size=%dx%d > canvas size=%dx%d", len([]rune(lines[0])), len(lines), c.width, c.height-y)
	}
	c.Center(y, strings.Join(lines, "\n"))
	return nil
}
