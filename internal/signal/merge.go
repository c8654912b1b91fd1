package signal

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedFrame signals duplicate timestamps among the frame's active
// rows. Merging such a frame would silently duplicate joined rows, so the
// merge refuses instead.
var ErrMalformedFrame = errors.New("signal: duplicate timestamp in active frame rows")

// MergeActive left-joins the frame's active rows onto the original bar index.
//
// Every timestamp of the original index appears exactly once in the result,
// in order: position i carries the label of the active frame row with the
// same timestamp, or nil when no active row matches (hold rows are dropped
// before the join, so hold shows up as absence, not as a label). The
// eligibility flags do not survive the merge; only the label does.
func MergeActive(index []time.Time, frameIndex []time.Time, fr *Frame) ([]*Label, error) {
	if fr == nil {
		return make([]*Label, len(index)), nil
	}
	if len(frameIndex) != fr.Len() {
		return nil, fmt.Errorf("signal: frame index length %d does not match frame rows %d", len(frameIndex), fr.Len())
	}

	active := make(map[int64]Label)
	for i := 0; i < fr.Len(); i++ {
		if !fr.Active(i) {
			continue
		}
		key := frameIndex[i].UnixNano()
		if _, dup := active[key]; dup {
			return nil, ErrMalformedFrame
		}
		active[key] = fr.Labels[i]
	}

	out := make([]*Label, len(index))
	for i, ts := range index {
		if lbl, ok := active[ts.UnixNano()]; ok {
			l := lbl
			out[i] = &l
		}
	}
	return out, nil
}
