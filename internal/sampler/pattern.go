package sampler

import (
	"github.com/fogleman/gg"
)

const patternCanvas = 256

// StudPattern renders the default repeating baseplate texture (a cream base
// with faint studs) and samples it down to size×size texels.
func StudPattern(size int) (Texture, error) {
	dc := gg.NewContext(patternCanvas, patternCanvas)
	dc.SetHexColor("#efe4d3")
	dc.Clear()

	for y := 12.0; y < patternCanvas; y += 24 {
		for x := 12.0; x < patternCanvas; x += 24 {
			dc.DrawCircle(x, y, 6.2)
			dc.SetRGBA(0, 0, 0, 0.035)
			dc.Fill()

			dc.DrawCircle(x-2, y-2, 3.4)
			dc.SetRGBA(1, 1, 1, 0.18)
			dc.Fill()
		}
	}

	pix, err := FromImage(dc.Image(), size, Options{})
	if err != nil {
		return Texture{}, err
	}
	return NewTexture(size, size, pix), nil
}
