package imagecodec

import "errors"

var (
	// ErrImageTooSmall is returned when the padded HL2 subband can't hold
	// the tilesNeeded(bitCount) tiles (§4.4 "Embed preconditions").
	ErrImageTooSmall = errors.New("imagecodec: image too small to carry a watermark")
	// ErrDecodeFailure wraps a failed PNG decode.
	ErrDecodeFailure = errors.New("imagecodec: failed to decode image")
	// ErrNoWatermark is returned when no candidate alpha reaches
	// minConsistency across the decoded bits.
	ErrNoWatermark = errors.New("imagecodec: no watermark found")
)
