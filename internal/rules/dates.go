package rules

import (
	"regexp"
	"strconv"
	"time"
)

// DateRule is one phrase-to-date entry. Resolve computes the due date
// relative to "now" at extraction time; matches gives the regex submatches.
type DateRule struct {
	Name    string
	Pattern string
	Resolve func(now time.Time, matches []string) time.Time
}

type compiledDateRule struct {
	DateRule
	re *regexp.Regexp
}

// DateTable is an ordered set of compiled date rules. First match wins;
// table order is the priority.
type DateTable struct {
	rules []compiledDateRule
}

// DateMatch is the result of a successful date-phrase lookup.
type DateMatch struct {
	Rule    string
	Matched string // exact substring matched, stripped from the title later
	Due     time.Time
}

// NewDateTable compiles the given rules, preserving order. Rules with
// invalid patterns are skipped.
func NewDateTable(rules []DateRule) *DateTable {
	compiled := make([]compiledDateRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledDateRule{DateRule: r, re: re})
	}
	return &DateTable{rules: compiled}
}

// Match scans text (expected lowercased by the caller) against the table in
// order and returns the first hit.
func (t *DateTable) Match(text string, now time.Time) (DateMatch, bool) {
	for _, r := range t.rules {
		loc := r.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		matches := make([]string, 0, len(loc)/2)
		for i := 0; i < len(loc); i += 2 {
			if loc[i] < 0 {
				matches = append(matches, "")
				continue
			}
			matches = append(matches, text[loc[i]:loc[i+1]])
		}
		return DateMatch{
			Rule:    r.Name,
			Matched: matches[0],
			Due:     r.Resolve(now, matches),
		}, true
	}
	return DateMatch{}, false
}

// DefaultDateRules returns the ordered phrase-to-date table. Dates resolve
// to local midnight; all offsets are relative to extraction time, not the
// message timestamp.
func DefaultDateRules() []DateRule {
	return []DateRule{
		{Name: "day_after_tomorrow", Pattern: `послезавтра|day after tomorrow`, Resolve: daysAhead(2)},
		{Name: "tomorrow", Pattern: `завтра|tomorrow`, Resolve: daysAhead(1)},
		{Name: "in_n_days", Pattern: `через (\d+) д(?:ень|ня|ней)|in (\d+) days?`, Resolve: capturedDays},
		{Name: "in_a_week", Pattern: `через неделю|in a week`, Resolve: daysAhead(7)},
		{Name: "in_a_month", Pattern: `через месяц|in a month`, Resolve: daysAhead(30)},
		{Name: "monday", Pattern: `в понедельник|on monday`, Resolve: nextWeekday(time.Monday)},
		{Name: "tuesday", Pattern: `во вторник|on tuesday`, Resolve: nextWeekday(time.Tuesday)},
		{Name: "wednesday", Pattern: `в среду|on wednesday`, Resolve: nextWeekday(time.Wednesday)},
		{Name: "thursday", Pattern: `в четверг|on thursday`, Resolve: nextWeekday(time.Thursday)},
		{Name: "friday", Pattern: `в пятницу|on friday`, Resolve: nextWeekday(time.Friday)},
		{Name: "saturday", Pattern: `в субботу|on saturday`, Resolve: nextWeekday(time.Saturday)},
		{Name: "sunday", Pattern: `в воскресенье|on sunday`, Resolve: nextWeekday(time.Sunday)},
	}
}

// DefaultDateTable compiles DefaultDateRules.
func DefaultDateTable() *DateTable {
	return NewDateTable(DefaultDateRules())
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysAhead(n int) func(time.Time, []string) time.Time {
	return func(now time.Time, _ []string) time.Time {
		return midnight(now.AddDate(0, 0, n))
	}
}

// capturedDays handles "через N дней" / "in N days"; the capture group that
// matched carries N.
func capturedDays(now time.Time, matches []string) time.Time {
	for _, m := range matches[1:] {
		if m == "" {
			continue
		}
		if n, err := strconv.Atoi(m); err == nil {
			return midnight(now.AddDate(0, 0, n))
		}
	}
	return midnight(now.AddDate(0, 0, 1))
}

// nextWeekday resolves to the next strict occurrence of the weekday: the
// same weekday as today means one week out, never today.
func nextWeekday(wd time.Weekday) func(time.Time, []string) time.Time {
	return func(now time.Time, _ []string) time.Time {
		ahead := int(wd) - int(now.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return midnight(now.AddDate(0, 0, ahead))
	}
}
