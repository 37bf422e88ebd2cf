package timetable

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/cronograma-api/internal/models"
)

// UniquePeriods returns the distinct periods of entries. Labels with a leading
// number sort numerically ("2º" before "10º") and ahead of the rest, which
// sort alphabetically.
func UniquePeriods(entries []models.ClassEntry) []string {
	seen := make(map[string]struct{})
	periods := make([]string, 0)
	for _, e := range entries {
		p := strings.TrimSpace(e.Period)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
	}

	sort.SliceStable(periods, func(i, j int) bool {
		ni, okI := leadingInt(periods[i])
		nj, okJ := leadingInt(periods[j])
		switch {
		case okI && okJ && ni != nj:
			return ni < nj
		case okI != okJ:
			return okI
		}
		return Fold(periods[i]) < Fold(periods[j])
	})
	return periods
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
