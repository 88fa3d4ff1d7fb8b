package imagecodec

import "gonum.org/v1/gonum/mat"

// padLuma pads the luminance plane via edge replication to padMultiple
// using gonum's dense matrix as the working representation (§4.4 step 3;
// the DOMAIN STACK's designated role for gonum.mat is this padding/crop/
// tile-extraction slicing arithmetic, leaving the dwt/dct packages'
// existing [][]float64 APIs untouched).
func padLuma(y [][]float64) (padded [][]float64, origH, origW int) {
	origH, origW = len(y), len(y[0])
	h := ceilMultiple(origH, padMultiple)
	w := ceilMultiple(origW, padMultiple)
	d := mat.NewDense(h, w, nil)
	for r := 0; r < h; r++ {
		sr := r
		if sr >= origH {
			sr = origH - 1
		}
		for c := 0; c < w; c++ {
			sc := c
			if sc >= origW {
				sc = origW - 1
			}
			d.Set(r, c, y[sr][sc])
		}
	}
	return denseToSlice(d), origH, origW
}

// cropLuma crops a padded plane back down to (h, w) using gonum's slice
// view, mirroring padLuma's matrix-backed approach.
func cropLuma(plane [][]float64, h, w int) [][]float64 {
	full := sliceToDense(plane)
	view := full.Slice(0, h, 0, w)
	out := make([][]float64, h)
	for r := 0; r < h; r++ {
		out[r] = make([]float64, w)
		for c := 0; c < w; c++ {
			out[r][c] = view.At(r, c)
		}
	}
	return out
}

func denseToSlice(d *mat.Dense) [][]float64 {
	r, c := d.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			out[i][j] = d.At(i, j)
		}
	}
	return out
}

func sliceToDense(s [][]float64) *mat.Dense {
	r, c := len(s), len(s[0])
	d := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, s[i][j])
		}
	}
	return d
}

func ceilMultiple(v, n int) int {
	if v%n == 0 {
		return v
	}
	return v + (n - v%n)
}
