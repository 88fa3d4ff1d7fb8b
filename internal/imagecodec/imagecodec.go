// Package imagecodec implements the blind image watermarking codec: a
// QIM (quantization index modulation) embed/extract pair running on the
// level-2 HL subband of a 2-level Haar DWT, blockwise DCT-II coded.
// Only the MD5-digest encoding is used for images (§4.1); the 128-bit
// digest is spread across 8x8 tiles at five bits per tile, one bit per
// mid-frequency coefficient position: bit i goes to tile i/5 (tiles in
// raster order) at position coeffPositions[i%5].
package imagecodec

const (
	// base is the QIM quantization step before scaling by alpha.
	base = 16.0
	// padMultiple is 4 (two Haar halvings) x 8 (DCT tile size).
	padMultiple = 32
	// fastModeCorner is the top-left region operated on when fast_mode is
	// set and the image exceeds this size in either dimension (§4.4 step 2).
	fastModeCorner = 512
	// minConsistency is the fraction of bits that must decode with
	// sufficient confidence for an alpha candidate to be accepted
	// (§4.4 "Extract").
	minConsistency = 0.75
	// bitCount is the MD5 digest length in bits; the only payload length
	// the image codec ever embeds (§4.1).
	bitCount = 128
	// bitsPerTile is the number of mid-frequency positions (and so bits)
	// packed into each 8x8 tile.
	bitsPerTile = 5
)

// alphaCandidates is the brute-force search space tried at extraction,
// in ascending order so ties resolve toward the lowest alpha (§4.4).
var alphaCandidates = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0}

// coeffPositions are the five mid-frequency (row, col) offsets within an
// 8x8 DCT tile that the embed rule round-robins across (§4.4).
var coeffPositions = [bitsPerTile][2]int{{2, 3}, {3, 2}, {3, 3}, {4, 2}, {4, 3}}

// tilesNeeded returns the minimum tile count required to carry n bits
// at bitsPerTile bits each (§4.4 "Embed preconditions").
func tilesNeeded(n int) int {
	return (n + bitsPerTile - 1) / bitsPerTile
}
