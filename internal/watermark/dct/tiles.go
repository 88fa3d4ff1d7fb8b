package dct

// TileSize is the fixed block dimension the blockwise DCT operates over.
const TileSize = 8

// PadToTiles pads a subband plane via edge replication so both
// dimensions are divisible by TileSize. Returns the padded plane and the
// original dimensions for cropping after the inverse transform.
func PadToTiles(plane [][]float64) (padded [][]float64, origH, origW int) {
	origH = len(plane)
	origW = len(plane[0])
	h := ceilTile(origH)
	w := ceilTile(origW)
	if h == origH && w == origW {
		return plane, origH, origW
	}
	padded = make([][]float64, h)
	for y := 0; y < h; y++ {
		sy := y
		if sy >= origH {
			sy = origH - 1
		}
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			sx := x
			if sx >= origW {
				sx = origW - 1
			}
			row[x] = plane[sy][sx]
		}
		padded[y] = row
	}
	return padded, origH, origW
}

// Crop trims plane back to (h, w) from the top-left corner.
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

// TileCount returns the number of TileSize x TileSize tiles in a plane
// whose dimensions are already divisible by TileSize.
func TileCount(h, w int) int {
	return (h / TileSize) * (w / TileSize)
}

// ExtractTile copies out the tile at raster index idx (row-major order
// over the tile grid), matching the "deterministic raster ordering of
// tiles" of spec §4.4.
func ExtractTile(plane [][]float64, idx int) [][]float64 {
	tilesPerRow := len(plane[0]) / TileSize
	ty := idx / tilesPerRow
	tx := idx % tilesPerRow
	row0, col0 := ty*TileSize, tx*TileSize
	block := make([][]float64, TileSize)
	for i := 0; i < TileSize; i++ {
		block[i] = make([]float64, TileSize)
		copy(block[i], plane[row0+i][col0:col0+TileSize])
	}
	return block
}

// PutTile writes a tile back into plane at raster index idx.
func PutTile(plane [][]float64, idx int, block [][]float64) {
	tilesPerRow := len(plane[0]) / TileSize
	ty := idx / tilesPerRow
	tx := idx % tilesPerRow
	row0, col0 := ty*TileSize, tx*TileSize
	for i := 0; i < TileSize; i++ {
		copy(plane[row0+i][col0:col0+TileSize], block[i])
	}
}

func ceilTile(v int) int {
	if v%TileSize == 0 {
		return v
	}
	return v + (TileSize - v%TileSize)
}
