package rules

import "regexp"

// AssignmentPattern is a structural pattern suggesting directed work even
// when no keyword matched.
type AssignmentPattern struct {
	Name    string
	Pattern string
}

type compiledAssignment struct {
	AssignmentPattern
	re *regexp.Regexp
}

// AssignmentTable is the ordered, compiled set of assignment patterns.
type AssignmentTable struct {
	patterns []compiledAssignment
}

// DefaultAssignmentPatterns returns the ordered structural patterns:
// mention-first directives, mention-last directives, and a bare
// imperative-plus-object opener.
func DefaultAssignmentPatterns() []AssignmentPattern {
	return []AssignmentPattern{
		{Name: "mention_directive", Pattern: `^\s*@\w+[\s,:]+\p{L}+`},
		{Name: "directive_mention", Pattern: `^\s*\p{L}+[^@\n]*\s@\w+`},
		{Name: "imperative_object", Pattern: `^\s*\p{L}+(?:й|йте|ай|ите|уй)\s+\p{L}+`},
	}
}

// NewAssignmentTable compiles the given patterns, preserving order. Invalid
// patterns are skipped.
func NewAssignmentTable(patterns []AssignmentPattern) *AssignmentTable {
	compiled := make([]compiledAssignment, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledAssignment{AssignmentPattern: p, re: re})
	}
	return &AssignmentTable{patterns: compiled}
}

// DefaultAssignmentTable compiles DefaultAssignmentPatterns.
func DefaultAssignmentTable() *AssignmentTable {
	return NewAssignmentTable(DefaultAssignmentPatterns())
}

// Match returns the name of the first pattern matching text, or "".
func (t *AssignmentTable) Match(text string) string {
	for _, p := range t.patterns {
		if p.re.MatchString(text) {
			return p.Name
		}
	}
	return ""
}
