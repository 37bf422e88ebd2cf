package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cronograma-api/internal/models"
)

const period = "3º Período"

func entry(discipline, group, weekday, start, end, room string) models.ClassEntry {
	return models.ClassEntry{
		Period:     period,
		Module:     "Module 1",
		Group:      group,
		Weekday:    weekday,
		Discipline: discipline,
		Room:       room,
		StartTime:  start,
		EndTime:    end,
	}
}

func day(t *testing.T, week []models.DaySchedule, weekday string) models.DaySchedule {
	t.Helper()
	for _, d := range week {
		if d.Weekday == weekday {
			return d
		}
	}
	t.Fatalf("weekday %s missing", weekday)
	return models.DaySchedule{}
}

func cards(d models.DaySchedule) []models.ClassCard {
	var out []models.ClassCard
	for _, item := range d.Items {
		if item.Class != nil {
			out = append(out, *item.Class)
		}
	}
	return out
}

func slots(d models.DaySchedule) []models.FreeSlot {
	var out []models.FreeSlot
	for _, item := range d.Items {
		if item.FreeSlot != nil {
			out = append(out, *item.FreeSlot)
		}
	}
	return out
}

func TestBuildScheduleWeekdayCompleteness(t *testing.T) {
	week := BuildSchedule(nil, period, models.ScheduleFilters{})
	require.Len(t, week, 5)
	for i, d := range week {
		assert.Equal(t, models.Weekdays[i], d.Weekday)
		require.Len(t, d.Items, 1)
		require.NotNil(t, d.Items[0].FreeSlot)
		assert.Equal(t, "08:00 - 22:00", d.Items[0].FreeSlot.TimeRange)
		assert.Empty(t, d.Items[0].FreeSlot.Label)
		assert.True(t, d.Items[0].FreeSlot.IsFreeSlot)
	}
}

func TestBuildScheduleMergesSharedSession(t *testing.T) {
	entries := []models.ClassEntry{
		entry("X", "GRUPO - A", models.Monday, "08:00", "09:40", "101"),
		entry("X", "GRUPO - B", models.Monday, "08:00", "09:40", "101"),
	}
	entries[0].Teacher = "Ana"
	entries[1].Teacher = "Bruno"

	monday := day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday)
	cs := cards(monday)
	require.Len(t, cs, 1)
	assert.Equal(t, "X", cs[0].Discipline)
	require.Len(t, cs[0].Sessions, 1)
	s := cs[0].Sessions[0]
	assert.Equal(t, "A, B", s.GroupLabel)
	assert.Equal(t, "Ana / Bruno", s.Teacher)
	assert.Equal(t, "08:00 - 09:40", s.TimeRange)
	assert.Equal(t, "Groups A-B", cs[0].GroupSummary)
	assert.Equal(t, "08:00 - 09:40", cs[0].TimeRange)
}

func TestBuildScheduleKeepsRoomsApart(t *testing.T) {
	entries := []models.ClassEntry{
		entry("X", "GRUPO - A", models.Monday, "08:00", "09:40", "101"),
		entry("X", "GRUPO - B", models.Monday, "08:00", "09:40", "102"),
	}

	cs := cards(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday))
	require.Len(t, cs, 1)
	require.Len(t, cs[0].Sessions, 2)
	assert.Equal(t, "A", cs[0].Sessions[0].GroupLabel)
	assert.Equal(t, "B", cs[0].Sessions[1].GroupLabel)
}

func TestBuildScheduleRoomComparisonIgnoresCaseAndSpacing(t *testing.T) {
	entries := []models.ClassEntry{
		entry("X", "A", models.Monday, "08:00", "09:40", "Lab  1"),
		entry("X", "A", models.Monday, "08:00", "09:40", "lab 1"),
		entry("X", "B", models.Monday, "08:00", "09:40", "LAB 1"),
	}

	cs := cards(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday))
	require.Len(t, cs[0].Sessions, 1)
	assert.Equal(t, []string{"A", "B"}, cs[0].Sessions[0].Groups)
}

func TestBuildScheduleDualTrackLabeling(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Lab", "1", models.Tuesday, "08:00", "10:00", "L1"),
		entry("Lecture", "A", models.Tuesday, "08:00", "12:00", "A1"),
	}

	tuesday := day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Tuesday)
	got := slots(tuesday)
	require.Len(t, got, 2)
	assert.Equal(t, "10:00 - 12:00", got[0].TimeRange)
	assert.Equal(t, models.TrackNumeric, got[0].Label)
	assert.Equal(t, "12:00 - 22:00", got[1].TimeRange)
	assert.Empty(t, got[1].Label)
}

func TestBuildScheduleDualTrackAlphaOnlyGap(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Lab", "GRUPO - 1", models.Tuesday, "08:00", "22:00", "L1"),
		entry("Lecture", "GRUPO - A", models.Tuesday, "08:00", "10:00", "A1"),
		entry("Lecture", "GRUPO - A", models.Tuesday, "14:00", "22:00", "A1"),
	}

	got := slots(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Tuesday))
	require.Len(t, got, 1)
	assert.Equal(t, "10:00 - 14:00", got[0].TimeRange)
	assert.Equal(t, models.TrackAlpha, got[0].Label)
}

func TestBuildScheduleShortCommonGapKeepsTrackGapsWhole(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Lab", "1", models.Thursday, "08:00", "10:00", "L1"),
		entry("Lab", "1", models.Thursday, "11:00", "22:00", "L1"),
		entry("Lecture", "A", models.Thursday, "08:00", "10:40", "A1"),
		entry("Lecture", "A", models.Thursday, "12:00", "22:00", "A1"),
	}

	got := slots(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Thursday))
	require.Len(t, got, 2)
	assert.Equal(t, "10:00 - 11:00", got[0].TimeRange)
	assert.Equal(t, models.TrackNumeric, got[0].Label)
	assert.Equal(t, 60, got[0].EndMinutes-got[0].StartMinutes)
	assert.Equal(t, "10:40 - 12:00", got[1].TimeRange)
	assert.Equal(t, models.TrackAlpha, got[1].Label)
}

func TestBuildScheduleIdenticalTrackGapsCollapse(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Lab", "1", models.Monday, "08:00", "12:00", "L1"),
		entry("Lecture", "A", models.Monday, "08:00", "12:00", "A1"),
	}

	got := slots(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday))
	require.Len(t, got, 1)
	assert.Equal(t, "12:00 - 22:00", got[0].TimeRange)
	assert.Empty(t, got[0].Label)
}

func TestBuildScheduleThresholdBoundary(t *testing.T) {
	entries := []models.ClassEntry{
		entry("A", "1", models.Wednesday, "08:00", "10:00", "1"),
		entry("B", "1", models.Wednesday, "10:29", "12:00", "1"),
		entry("C", "1", models.Wednesday, "12:31", "22:00", "1"),
	}

	got := slots(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Wednesday))
	require.Len(t, got, 1)
	assert.Equal(t, "12:00 - 12:31", got[0].TimeRange)
}

func TestBuildScheduleIsIdempotent(t *testing.T) {
	entries := []models.ClassEntry{
		entry("X", "GRUPO - A", models.Monday, "08:00", "09:40", "101"),
		entry("X", "GRUPO - B", models.Monday, "08:00", "09:40", "101"),
		entry("Y", "1", models.Monday, "13:00", "15:00", "201"),
		entry("Z", "A", models.Thursday, "19:00", "21:00", "301"),
	}
	filters := models.ScheduleFilters{Groups: []string{"A", "1"}}

	first := BuildSchedule(entries, period, filters)
	second := BuildSchedule(entries, period, filters)
	assert.Equal(t, first, second)
}

func TestBuildScheduleSortStability(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Zoology", "A", models.Friday, "08:00", "10:00", "1"),
		entry("Anatomy", "B", models.Friday, "08:00", "09:00", "2"),
		entry("Biology", "C", models.Friday, "08:00", "11:00", "3"),
	}

	for i := 0; i < 5; i++ {
		cs := cards(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Friday))
		require.Len(t, cs, 3)
		assert.Equal(t, []string{"Zoology", "Anatomy", "Biology"}, []string{cs[0].Discipline, cs[1].Discipline, cs[2].Discipline})
	}
}

func TestBuildScheduleInterleavesByStart(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Late", "A", models.Monday, "12:00", "22:00", "1"),
		entry("Early", "A", models.Monday, "08:00", "09:00", "1"),
	}

	monday := day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday)
	require.Len(t, monday.Items, 3)
	assert.Equal(t, "Early", monday.Items[0].Class.Discipline)
	assert.Equal(t, "09:00 - 12:00", monday.Items[1].FreeSlot.TimeRange)
	assert.Equal(t, "Late", monday.Items[2].Class.Discipline)
}

func TestBuildScheduleTotalCoverage(t *testing.T) {
	entries := []models.ClassEntry{
		entry("A", "1", models.Monday, "08:20", "10:00", "1"),
		entry("B", "2", models.Monday, "09:30", "11:00", "2"),
		entry("C", "1", models.Monday, "11:20", "13:00", "1"),
		entry("D", "3", models.Monday, "14:00", "16:00", "3"),
		entry("E", "2", models.Monday, "16:10", "21:40", "2"),
	}

	monday := day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday)

	covered := make(map[int]int)
	var occupied []Interval
	for _, c := range cards(monday) {
		for _, s := range c.Sessions {
			occupied = append(occupied, Interval{s.StartMinutes, s.EndMinutes})
			for m := s.StartMinutes; m < s.EndMinutes; m++ {
				covered[m] = 1
			}
		}
	}
	for _, s := range slots(monday) {
		for m := s.StartMinutes; m < s.EndMinutes; m++ {
			require.Zero(t, covered[m], "minute %d covered by a class and a free slot", m)
			covered[m] = 2
		}
	}

	for _, gap := range FreeIntervals(occupied, DefaultDayStart, DefaultDayEnd, 0) {
		for m := gap.Start; m < gap.End; m++ {
			if gap.Len() > DefaultMinGap {
				assert.Equal(t, 2, covered[m], "minute %d of a long gap not reported", m)
			} else {
				assert.Zero(t, covered[m], "minute %d of a short gap reported", m)
			}
		}
	}
}

func TestBuildScheduleInvalidTimesRenderButDoNotOccupy(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Broken", "A", models.Monday, "10:00", "09:00", "1"),
		entry("Unknown", "A", models.Monday, "", "xx", "1"),
	}

	monday := day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday)
	cs := cards(monday)
	require.Len(t, cs, 2)
	assert.True(t, cs[0].Sessions[0].Invalid)
	assert.True(t, cs[1].Sessions[0].Invalid)

	got := slots(monday)
	require.Len(t, got, 1)
	assert.Equal(t, "08:00 - 22:00", got[0].TimeRange)

	mixed := []models.ClassEntry{
		entry("Late", "A", models.Tuesday, "15:00", "16:00", "1"),
		entry("Late", "B", models.Tuesday, "", "xx", "1"),
	}
	tuesday := day(t, BuildSchedule(mixed, period, models.ScheduleFilters{}), models.Tuesday)
	require.Len(t, tuesday.Items, 3)
	require.NotNil(t, tuesday.Items[0].FreeSlot)
	assert.Equal(t, "08:00 - 15:00", tuesday.Items[0].FreeSlot.TimeRange)
	require.NotNil(t, tuesday.Items[1].Class)
	card := tuesday.Items[1].Class
	assert.Equal(t, "15:00 - 16:00", card.TimeRange)
	assert.Equal(t, 15*60, card.StartMinutes())
	require.NotNil(t, tuesday.Items[2].FreeSlot)
	assert.Equal(t, "16:00 - 22:00", tuesday.Items[2].FreeSlot.TimeRange)
}

func TestBuildScheduleDropsUnschedulableEntries(t *testing.T) {
	entries := []models.ClassEntry{
		entry("", "A", models.Monday, "08:00", "10:00", "1"),
		entry("Weekend", "A", models.Saturday, "08:00", "10:00", "1"),
		entry("Typo", "A", "Mondya", "08:00", "10:00", "1"),
		entry("Lower", "A", "monday", "08:00", "10:00", "1"),
	}
	entries = append(entries, models.ClassEntry{Period: "other", Weekday: models.Monday, Discipline: "Elsewhere", StartTime: "08:00", EndTime: "10:00"})

	week := BuildSchedule(entries, period, models.ScheduleFilters{})
	total := 0
	for _, d := range week {
		total += len(cards(d))
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, "Lower", cards(day(t, week, models.Monday))[0].Discipline)
}

func TestBuildScheduleGroupFilterAndElectives(t *testing.T) {
	entries := []models.ClassEntry{
		entry("Keep", "GRUPO - A", models.Monday, "08:00", "10:00", "1"),
		entry("Drop", "GRUPO - B", models.Monday, "10:00", "12:00", "1"),
		entry("Shared", "", models.Monday, "13:00", "14:00", "1"),
	}
	elective := models.ElectiveEntry{Discipline: "Music", Weekday: models.Monday, StartTime: "19:00", EndTime: "21:00", Room: "Aud"}
	filters := models.ScheduleFilters{
		Groups:    []string{"a"},
		Electives: []models.ClassEntry{elective.ClassEntry(period)},
	}

	cs := cards(day(t, BuildSchedule(entries, period, filters), models.Monday))
	require.Len(t, cs, 3)
	assert.Equal(t, "Keep", cs[0].Discipline)
	assert.Equal(t, "Shared", cs[1].Discipline)
	assert.Equal(t, "Music", cs[2].Discipline)
	assert.True(t, cs[2].Elective)
	assert.Equal(t, models.ElectiveModule, cs[2].Module)
}

func TestBuildScheduleCardAggregates(t *testing.T) {
	entries := []models.ClassEntry{
		entry("X", "A", models.Monday, "10:00", "12:00", "1"),
		entry("X", "B", models.Monday, "08:00", "09:00", "2"),
	}
	entries[0].Note = "bring coat"
	entries[1].Note = "bring coat"
	entries[1].Module = "Module 2"

	cs := cards(day(t, BuildSchedule(entries, period, models.ScheduleFilters{}), models.Monday))
	require.Len(t, cs, 1)
	assert.Equal(t, "08:00 - 12:00", cs[0].TimeRange)
	assert.Equal(t, "Module 1 / Module 2", cs[0].Module)
	assert.Equal(t, "bring coat", cs[0].Note)
	assert.Equal(t, 480, cs[0].StartMinutes())
	assert.Equal(t, "B", cs[0].Sessions[0].GroupLabel)
}

func TestEngineCustomBounds(t *testing.T) {
	e := NewEngine(ParseConfig("07:00", "12:00", 10, nil))
	week := e.BuildSchedule(nil, period, models.ScheduleFilters{})
	assert.Equal(t, "07:00 - 12:00", week[0].Items[0].FreeSlot.TimeRange)

	fallback := NewEngine(ParseConfig("bad", "12:00", -1, nil))
	assert.Equal(t, DefaultConfig().DayStart, fallback.Config().DayStart)
	assert.Equal(t, DefaultMinGap, fallback.Config().MinGap)
}
