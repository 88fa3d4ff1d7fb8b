package imagecodec

import (
	"image"
	"image/color"
)

// planes holds the BT.601 luminance/chroma decomposition of an RGBA
// image. Only y is ever modified by the codec; cb/cr are reattached
// untouched at encode time (§4.4 step 1).
type planes struct {
	y, cb, cr [][]float64
	w, h      int
}

func toPlanes(img image.Image) *planes {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	p := &planes{w: w, h: h}
	p.y = make([][]float64, h)
	p.cb = make([][]float64, h)
	p.cr = make([][]float64, h)
	for y := 0; y < h; y++ {
		p.y[y] = make([]float64, w)
		p.cb[y] = make([]float64, w)
		p.cr[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			R, G, B := float64(r>>8), float64(g>>8), float64(bl>>8)
			p.y[y][x] = 0.299*R + 0.587*G + 0.114*B
			p.cb[y][x] = 128 - 0.168736*R - 0.331264*G + 0.5*B
			p.cr[y][x] = 128 + 0.5*R - 0.418688*G - 0.081312*B
		}
	}
	return p
}

// toRGBA reassembles an image.RGBA from the (possibly modified) luminance
// plane and the untouched chroma planes, clamping each channel to [0,255].
func (p *planes) toRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, p.w, p.h))
	for y := 0; y < p.h; y++ {
		for x := 0; x < p.w; x++ {
			Y, Cb, Cr := p.y[y][x], p.cb[y][x], p.cr[y][x]
			r := Y + 1.402*(Cr-128)
			g := Y - 0.344136*(Cb-128) - 0.714136*(Cr-128)
			bl := Y + 1.772*(Cb-128)
			out.SetRGBA(x, y, color.RGBA{
				R: clampByte(r), G: clampByte(g), B: clampByte(bl), A: 255,
			})
		}
	}
	return out
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
