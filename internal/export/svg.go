package export

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"
	"github.com/san-kum/driftfield/internal/render"
)

// brailleBits maps a dot inside a 2x4 Braille cell to its pattern bit.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasSVG draws a Braille canvas as it looks in the terminal: one dot
// per set Braille bit, in its cell's blended color. Each dot takes
// scale x scale user units.
func CanvasSVG(canvas *render.Canvas, scale float64) []byte {
	if canvas == nil {
		return nil
	}
	if scale <= 0 {
		scale = 1
	}

	width := int(float64(canvas.Width*2) * scale)
	height := int(float64(canvas.Height*4) * scale)

	var buf bytes.Buffer
	doc := svg.New(&buf)
	doc.Start(width, height)
	doc.Rect(0, 0, width, height, "fill:"+canvas.Background.Clamped().Hex())

	r := max(int(scale*0.4+0.5), 1)
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			doc.Gstyle("fill:" + canvas.Colors[row][col].Clamped().Hex())
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&brailleBits[dy][dx] == 0 {
						continue
					}
					cx := (float64(col*2+dx) + 0.5) * scale
					cy := (float64(row*4+dy) + 0.5) * scale
					doc.Circle(int(cx), int(cy), r)
				}
			}
			doc.Gend()
		}
	}

	doc.End()
	return buf.Bytes()
}

// SaveCanvasSVG writes CanvasSVG to path.
func SaveCanvasSVG(path string, canvas *render.Canvas, scale float64) error {
	data := CanvasSVG(canvas, scale)
	if data == nil {
		return fmt.Errorf("export: nil canvas")
	}
	return os.WriteFile(path, data, 0644)
}
