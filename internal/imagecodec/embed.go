package imagecodec

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/Wxl-c137/blindmarker/internal/bitcodec"
	"github.com/Wxl-c137/blindmarker/internal/model"
	"github.com/Wxl-c137/blindmarker/internal/watermark/dct"
	"github.com/Wxl-c137/blindmarker/internal/watermark/dwt"
)

// Embed reads a PNG, embeds the MD5 digest of text into its level-2 HL
// subband at the given strength, and returns the re-encoded PNG bytes.
// fastMode restricts the operation to the top-left 512x512 corner when
// either image dimension exceeds it (§4.4 step 2).
func Embed(pngBytes []byte, text string, alpha float64, fastMode bool) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailure, err)
	}

	p := toPlanes(img)
	corner := cornerBounds(p.w, p.h, fastMode)

	region := extractRegion(p.y, corner)
	if err := embedRegion(region, text, alpha); err != nil {
		return nil, err
	}
	putRegion(p.y, corner, region)

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.toRGBA()); err != nil {
		return nil, fmt.Errorf("imagecodec: png encode: %w", err)
	}
	return buf.Bytes(), nil
}

type bounds struct{ x0, y0, w, h int }

// cornerBounds returns the region the codec operates over: the full
// plane, or its top-left fastModeCorner square when fast_mode applies.
func cornerBounds(w, h int, fastMode bool) bounds {
	if fastMode && (w > fastModeCorner || h > fastModeCorner) {
		cw, ch := min(w, fastModeCorner), min(h, fastModeCorner)
		return bounds{0, 0, cw, ch}
	}
	return bounds{0, 0, w, h}
}

// candidateRegions lists every region Extract must try, since a decoded
// PNG carries no record of whether it was embedded with fast_mode: the
// full plane always, plus the top-left fastModeCorner square when the
// image is large enough for fast_mode to have cropped it at embed time
// (§4.4 "Extract" tries candidates blind to the embed-time knob).
func candidateRegions(w, h int) []bounds {
	regions := []bounds{cornerBounds(w, h, false)}
	if corner := cornerBounds(w, h, true); corner != regions[0] {
		regions = append(regions, corner)
	}
	return regions
}

func extractRegion(plane [][]float64, b bounds) [][]float64 {
	out := make([][]float64, b.h)
	for y := 0; y < b.h; y++ {
		out[y] = make([]float64, b.w)
		copy(out[y], plane[b.y0+y][b.x0:b.x0+b.w])
	}
	return out
}

func putRegion(plane [][]float64, b bounds, region [][]float64) {
	for y := 0; y < b.h; y++ {
		copy(plane[b.y0+y][b.x0:b.x0+b.w], region[y])
	}
}

// embedRegion runs §4.4 steps 3-6 on a single-channel region in place.
func embedRegion(region [][]float64, text string, alpha float64) error {
	bits := bitcodec.EncodeToBits(model.ModeMD5, text, nil)

	padded, origH, origW := padLuma(region)
	comp := dwt.Decompose(padded)

	hl2, th, tw := dct.PadToTiles(comp.HL2)
	if dct.TileCount(len(hl2), len(hl2[0])) < tilesNeeded(len(bits)) {
		return ErrImageTooSmall
	}

	for t := 0; t*bitsPerTile < len(bits); t++ {
		tile := dct.ExtractTile(hl2, t)
		coeffs := dct.Forward2D(tile)
		for p := 0; p < bitsPerTile && t*bitsPerTile+p < len(bits); p++ {
			embedBit(coeffs, coeffPositions[p], bits[t*bitsPerTile+p], alpha)
		}
		dct.PutTile(hl2, t, dct.Inverse2D(coeffs))
	}
	comp.HL2 = dct.Crop(hl2, th, tw)

	rec := dwt.Reconstruct(comp)
	cropped := cropLuma(rec, origH, origW)
	for y := range region {
		copy(region[y], cropped[y])
	}
	return nil
}
