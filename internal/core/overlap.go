package core

import (
	"errors"
	"fmt"
	"strings"
)

var ErrOverlap = errors.New("activity overlaps an existing activity")

// OverlapError lists the activities a candidate interval collides with.
type OverlapError struct {
	Start, End Clock
	Conflicts  []Activity
}

func (e *OverlapError) Error() string {
	ids := make([]string, len(e.Conflicts))
	for i, a := range e.Conflicts {
		ids[i] = a.ID
	}
	return fmt.Sprintf("%s-%s overlaps %s", e.Start, e.End, strings.Join(ids, ", "))
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlap
}

// HasOverlap reports whether [start, end) collides with any activity in
// existing, skipping the one whose ID equals excludeID.
func HasOverlap(start, end Clock, existing []Activity, excludeID string) bool {
	for _, a := range existing {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if intervalsOverlap(start, end, a.Start, a.End) {
			return true
		}
	}
	return false
}

// Conflicts returns every activity HasOverlap would have matched.
func Conflicts(start, end Clock, existing []Activity, excludeID string) []Activity {
	var out []Activity
	for _, a := range existing {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if intervalsOverlap(start, end, a.Start, a.End) {
			out = append(out, a)
		}
	}
	return out
}

// intervalsOverlap applies the four-case policy. A wrapping interval
// occupies [start,1440) and [0,end). Touching endpoints do not overlap when
// neither interval wraps; the inclusive >=/<= checks of the one-wraps cases
// are kept as-is, and the plain segment intersection is OR-ed in so an
// interval crossing either wrapped segment boundary is caught too.
func intervalsOverlap(cStart, cEnd, xStart, xEnd Clock) bool {
	cWraps := cEnd < cStart
	xWraps := xEnd < xStart

	switch {
	case !cWraps && !xWraps:
		return cStart < xEnd && cEnd > xStart
	case cWraps && !xWraps:
		return xStart >= cStart || xEnd <= cEnd || xStart < cEnd || xEnd > cStart
	case !cWraps && xWraps:
		return cStart >= xStart || cEnd <= xEnd || cStart < xEnd || cEnd > xStart
	default:
		return true
	}
}
