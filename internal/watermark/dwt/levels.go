package dwt

// Components holds the eight subbands (four per level) produced by a
// 2-level Haar decomposition: the level-1 subbands from the original plane, and
// the level-2 subbands computed from the level-1 LL. Level 2 is the one
// the image codec embeds into (spec §4.2: "the engine operates on the
// level-2 HL subband").
type Components struct {
	LL1, LH1, HL1, HH1 [][]float64
	LL2, LH2, HL2, HH2 [][]float64
}

// Decompose runs a 2-level 2D Haar DWT on src. src's dimensions must be
// divisible by 4 (two halvings); callers pad beforehand (see Pad4).
func Decompose(src [][]float64) Components {
	ll1, lh1, hl1, hh1 := Forward2D(src)
	ll2, lh2, hl2, hh2 := Forward2D(ll1)
	return Components{
		LL1: ll1, LH1: lh1, HL1: hl1, HH1: hh1,
		LL2: ll2, LH2: lh2, HL2: hl2, HH2: hh2,
	}
}

// Reconstruct is the exact inverse of Decompose.
func Reconstruct(c Components) [][]float64 {
	ll1 := Inverse2D(c.LL2, c.LH2, c.HL2, c.HH2)
	return Inverse2D(ll1, c.LH1, c.HL1, c.HH1)
}

// Pad4 pads a plane via edge replication so both dimensions are
// divisible by n (4 for a 2-level DWT, 32 once the 8x8 DCT tiling on
// the level-2 subband is accounted for — see imagecodec's padMultiple).
// It returns the padded plane and the original (h, w) so the caller can
// crop back after reconstruction.
func Pad4(src [][]float64, n int) (padded [][]float64, origH, origW int) {
	origH = len(src)
	origW = len(src[0])
	h := ceilMultiple(origH, n)
	w := ceilMultiple(origW, n)
	if h == origH && w == origW {
		return src, origH, origW
	}
	padded = make([][]float64, h)
	for y := 0; y < h; y++ {
		srcY := y
		if srcY >= origH {
			srcY = origH - 1
		}
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			srcX := x
			if srcX >= origW {
				srcX = origW - 1
			}
			row[x] = src[srcY][srcX]
		}
		padded[y] = row
	}
	return padded, origH, origW
}

// Crop trims a plane back down to (h, w) from its top-left corner,
// undoing Pad4.
func Crop(plane [][]float64, h, w int) [][]float64 {
	if len(plane) == h && len(plane[0]) == w {
		return plane
	}
	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		out[y] = make([]float64, w)
		copy(out[y], plane[y][:w])
	}
	return out
}

func ceilMultiple(v, n int) int {
	if v%n == 0 {
		return v
	}
	return v + (n - v%n)
}
