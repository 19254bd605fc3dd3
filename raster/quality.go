package raster

// AcceptedQualityFlags are the per-pixel QC codes treated as high quality:
// the values whose two lowest quality bits are zero ("LST produced, good
// quality"). Membership here is the {0, 4, 8} policy, not the flag == 0
// collapse of the original OR-chain.
var AcceptedQualityFlags = []float64{0, 4, 8}

// FilterQuality applies the quality-flag policy to a raw value grid. The
// returned grid carries the raw value wherever the matching quality flag is
// accepted and 0 elsewhere; the returned mask is true exactly where the
// filtered value is non-zero. Inputs are not modified.
func FilterQuality(value, quality *Grid) (*Grid, *Mask, error) {
	if !value.SameShape(quality) {
		return nil, nil, shapeError("quality filter", value, quality)
	}

	filtered := NewGrid(value.Width, value.Height)
	validity := NewMask(value.Width, value.Height)
	for i, raw := range value.Data {
		if !acceptedFlag(quality.Data[i]) {
			continue
		}
		filtered.Data[i] = raw
		validity.Data[i] = raw != 0
	}
	return filtered, validity, nil
}

func acceptedFlag(flag float64) bool {
	for _, accepted := range AcceptedQualityFlags {
		if flag == accepted {
			return true
		}
	}
	return false
}
