package timetable

import "sort"

// Interval is a half-open span of minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// Len returns the interval duration in minutes.
func (i Interval) Len() int {
	return i.End - i.Start
}

// FreeIntervals returns the gaps of [dayStart, dayEnd] not covered by occupied,
// keeping only gaps strictly longer than minGap. Occupied intervals are clipped
// to the day; empty or inverted ones are ignored. With nothing occupied the
// whole day is returned.
func FreeIntervals(occupied []Interval, dayStart, dayEnd, minGap int) []Interval {
	blocks := mergeIntervals(clip(occupied, dayStart, dayEnd))
	if len(blocks) == 0 {
		if dayEnd > dayStart {
			return []Interval{{Start: dayStart, End: dayEnd}}
		}
		return nil
	}

	gaps := make([]Interval, 0, len(blocks)+1)
	cursor := dayStart
	for _, b := range blocks {
		if b.Start-cursor > minGap {
			gaps = append(gaps, Interval{Start: cursor, End: b.Start})
		}
		cursor = b.End
	}
	if dayEnd-cursor > minGap {
		gaps = append(gaps, Interval{Start: cursor, End: dayEnd})
	}
	return gaps
}

func clip(intervals []Interval, lo, hi int) []Interval {
	out := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Start < lo {
			iv.Start = lo
		}
		if iv.End > hi {
			iv.End = hi
		}
		if iv.End > iv.Start {
			out = append(out, iv)
		}
	}
	return out
}

// mergeIntervals sorts and merges overlapping or touching intervals.
func mergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := append([]Interval(nil), intervals...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// intersect returns the overlap of two sorted, disjoint interval lists.
func intersect(a, b []Interval) []Interval {
	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := max(a[i].Start, b[j].Start)
		end := min(a[i].End, b[j].End)
		if end > start {
			out = append(out, Interval{Start: start, End: end})
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return out
}

// subtract removes every interval of b from a. Both lists are sorted and disjoint.
func subtract(a, b []Interval) []Interval {
	var out []Interval
	for _, iv := range a {
		cursor := iv.Start
		for _, cut := range b {
			if cut.End <= cursor || cut.Start >= iv.End {
				continue
			}
			if cut.Start > cursor {
				out = append(out, Interval{Start: cursor, End: cut.Start})
			}
			if cut.End > cursor {
				cursor = cut.End
			}
		}
		if cursor < iv.End {
			out = append(out, Interval{Start: cursor, End: iv.End})
		}
	}
	return out
}

func longerThan(intervals []Interval, minGap int) []Interval {
	out := intervals[:0:0]
	for _, iv := range intervals {
		if iv.Len() > minGap {
			out = append(out, iv)
		}
	}
	return out
}
