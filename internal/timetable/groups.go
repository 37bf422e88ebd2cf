package timetable

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// DefaultGroupPrefixes are stripped from raw group labels.
var DefaultGroupPrefixes = []string{"GRUPO", "TURMA"}

// GroupCleaner strips configured prefixes such as "GRUPO - " or "TURMA " from
// raw group labels. Labels without a known prefix pass through trimmed.
type GroupCleaner struct {
	re *regexp.Regexp
}

// NewGroupCleaner compiles a cleaner for the given prefixes. Empty input uses
// DefaultGroupPrefixes.
func NewGroupCleaner(prefixes []string) *GroupCleaner {
	cleaned := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, regexp.QuoteMeta(p))
		}
	}
	if len(cleaned) == 0 {
		for _, p := range DefaultGroupPrefixes {
			cleaned = append(cleaned, regexp.QuoteMeta(p))
		}
	}
	// longest first so "TURMAS" wins over "TURMA"
	sort.SliceStable(cleaned, func(i, j int) bool { return len(cleaned[i]) > len(cleaned[j]) })
	pattern := `(?i)^\s*(?:` + strings.Join(cleaned, "|") + `)(?:\s*[-–:]\s*|\s+)`
	return &GroupCleaner{re: regexp.MustCompile(pattern)}
}

// Clean returns the bare group name, e.g. "GRUPO - A" becomes "A".
func (g *GroupCleaner) Clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	out := strings.TrimSpace(g.re.ReplaceAllString(trimmed, ""))
	if out == "" {
		return trimmed
	}
	return out
}

// IsNumericGroup reports whether a raw group label belongs to the numeric
// track, i.e. contains at least one digit.
func IsNumericGroup(raw string) bool {
	return strings.IndexFunc(raw, unicode.IsDigit) >= 0
}

// FormatGroupRanges compacts cleaned group names into a summary such as
// "Groups A-D, F and Groups 1-2". Letters come first, then numbers, then any
// other label. A single group is returned as is.
func FormatGroupRanges(groups []string) string {
	seen := make(map[string]struct{}, len(groups))
	unique := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		key := strings.ToUpper(g)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, g)
	}
	switch len(unique) {
	case 0:
		return ""
	case 1:
		return unique[0]
	}

	var letters, numbers []int
	var others []string
	for _, g := range unique {
		if n, err := strconv.Atoi(g); err == nil && strconv.Itoa(n) == g {
			numbers = append(numbers, n)
			continue
		}
		if r := []rune(g); len(r) == 1 && r[0] < unicode.MaxASCII && unicode.IsLetter(r[0]) {
			letters = append(letters, int(unicode.ToUpper(r[0])))
			continue
		}
		others = append(others, g)
	}

	parts := make([]string, 0, 3)
	if len(letters) > 0 {
		sort.Ints(letters)
		parts = append(parts, "Groups "+strings.Join(runs(letters, func(n int) string { return string(rune(n)) }), ", "))
	}
	if len(numbers) > 0 {
		sort.Ints(numbers)
		parts = append(parts, "Groups "+strings.Join(runs(numbers, strconv.Itoa), ", "))
	}
	if len(others) > 0 {
		sort.Strings(others)
		parts = append(parts, "Groups "+strings.Join(others, ", "))
	}
	return strings.Join(parts, " and ")
}

// runs collapses consecutive sorted values into "a-b" ranges.
func runs(values []int, format func(int) string) []string {
	out := make([]string, 0, len(values))
	start, prev := values[0], values[0]
	flush := func() {
		if start == prev {
			out = append(out, format(start))
		} else {
			out = append(out, format(start)+"-"+format(prev))
		}
	}
	for _, v := range values[1:] {
		if v == prev || v == prev+1 {
			prev = v
			continue
		}
		flush()
		start, prev = v, v
	}
	flush()
	return out
}
