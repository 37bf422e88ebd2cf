package timetable

import (
	"sort"
	"strings"

	"github.com/noah-isme/cronograma-api/internal/models"
)

// freeSlots computes the day's free slots. When numeric and letter groups
// share the day, each track gets its own gaps: time free in both tracks is an
// unlabeled slot, time free in only one is labeled with that track. Entries
// without a group occupy both tracks.
func (e *Engine) freeSlots(entries []models.ClassEntry) []models.FreeSlot {
	var numeric, alpha, shared []Interval
	for _, entry := range entries {
		start := ParseMinutes(entry.StartTime)
		end := ParseMinutes(entry.EndTime)
		if !validInterval(start, end) {
			continue
		}
		iv := Interval{Start: start, End: end}
		switch group := strings.TrimSpace(entry.Group); {
		case group == "":
			shared = append(shared, iv)
		case IsNumericGroup(group):
			numeric = append(numeric, iv)
		default:
			alpha = append(alpha, iv)
		}
	}

	cfg := e.cfg
	if len(numeric) == 0 || len(alpha) == 0 {
		all := append(append(append([]Interval{}, shared...), numeric...), alpha...)
		return toSlots(FreeIntervals(all, cfg.DayStart, cfg.DayEnd, cfg.MinGap), "")
	}

	numericGaps := FreeIntervals(append(numeric, shared...), cfg.DayStart, cfg.DayEnd, cfg.MinGap)
	alphaGaps := FreeIntervals(append(alpha, shared...), cfg.DayStart, cfg.DayEnd, cfg.MinGap)

	common, numericOnly, alphaOnly := splitTracks(numericGaps, alphaGaps, cfg.MinGap)
	slots := toSlots(common, "")
	slots = append(slots, toSlots(longerThan(numericOnly, cfg.MinGap), models.TrackNumeric)...)
	slots = append(slots, toSlots(longerThan(alphaOnly, cfg.MinGap), models.TrackAlpha)...)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].StartMinutes < slots[j].StartMinutes })
	return slots
}

// splitTracks divides two tracks' gaps into time free in both and time free in
// only one. A common piece at or under minGap is not reported on its own: the
// labeled pieces touching it absorb it, so no track's gap shrinks.
func splitTracks(numericGaps, alphaGaps []Interval, minGap int) (common, numericOnly, alphaOnly []Interval) {
	numericOnly = subtract(numericGaps, alphaGaps)
	alphaOnly = subtract(alphaGaps, numericGaps)
	for _, iv := range intersect(numericGaps, alphaGaps) {
		if iv.Len() > minGap {
			common = append(common, iv)
			continue
		}
		absorb(numericOnly, iv)
		absorb(alphaOnly, iv)
	}
	return common, numericOnly, alphaOnly
}

// absorb extends the pieces that touch iv to cover it.
func absorb(pieces []Interval, iv Interval) {
	for i := range pieces {
		if pieces[i].End == iv.Start || pieces[i].Start == iv.End {
			pieces[i].Start = min(pieces[i].Start, iv.Start)
			pieces[i].End = max(pieces[i].End, iv.End)
		}
	}
}

func toSlots(intervals []Interval, label string) []models.FreeSlot {
	slots := make([]models.FreeSlot, 0, len(intervals))
	for _, iv := range intervals {
		slots = append(slots, models.FreeSlot{
			IsFreeSlot:   true,
			TimeRange:    FormatRange(iv.Start, iv.End),
			Label:        label,
			StartMinutes: iv.Start,
			EndMinutes:   iv.End,
		})
	}
	return slots
}
