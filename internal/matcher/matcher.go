// Package matcher matches task labels against glob or regex patterns.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto attempts to detect the pattern type.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher reports whether inputs match one pattern.
type Matcher interface {
	Match(input string) bool
	Pattern() string
	Type() PatternType
}

type matcher struct {
	pattern         string
	patternType     PatternType
	compiled        *regexp.Regexp
	caseInsensitive bool
}

// Options configures the matcher behavior.
type Options struct {
	// CaseInsensitive makes matching case-insensitive
	CaseInsensitive bool
}

// New creates a Matcher for pattern. Regex patterns match anywhere in the
// input; glob patterns must match the whole input.
func New(patternType PatternType, pattern string, opts ...Options) (Matcher, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	m := &matcher{pattern: pattern, patternType: patternType, caseInsensitive: o.CaseInsensitive}
	if patternType == Auto {
		m.patternType = detectPatternType(pattern)
	}

	switch m.patternType {
	case Glob:
		if _, err := path.Match(m.glob(), ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		expr := pattern
		if o.CaseInsensitive && !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		compiled, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.compiled = compiled
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}
	return m, nil
}

func (m *matcher) glob() string {
	if m.caseInsensitive {
		return strings.ToLower(m.pattern)
	}
	return m.pattern
}

// Match checks if the input matches the pattern.
func (m *matcher) Match(input string) bool {
	if m.patternType == Regex {
		return m.compiled.MatchString(input)
	}
	if m.caseInsensitive {
		input = strings.ToLower(input)
	}
	matched, _ := path.Match(m.glob(), input)
	return matched
}

// Pattern returns the original pattern string.
func (m *matcher) Pattern() string {
	return m.pattern
}

// Type returns the pattern type being used.
func (m *matcher) Type() PatternType {
	return m.patternType
}

// detectPatternType treats patterns with regex-only syntax as regexes.
func detectPatternType(pattern string) PatternType {
	for _, indicator := range []string{
		"^", "$", "\\d", "\\w", "\\s", "(?", "{", "}", "+", "|", "(", ")",
	} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// Set matches when any of its patterns match.
type Set []Matcher

// NewSet compiles patterns with auto-detected types.
func NewSet(patterns []string, opts ...Options) (Set, error) {
	set := make(Set, 0, len(patterns))
	for _, p := range patterns {
		m, err := New(Auto, p, opts...)
		if err != nil {
			return nil, err
		}
		set = append(set, m)
	}
	return set, nil
}

// Match reports whether any pattern matches input. An empty set matches
// nothing.
func (s Set) Match(input string) bool {
	for _, m := range s {
		if m.Match(input) {
			return true
		}
	}
	return false
}

// Selector keeps inputs matching an include set but no exclude set. An
// empty include set keeps everything.
type Selector struct {
	Include Set
	Exclude Set
}

// NewSelector compiles include and exclude patterns case-insensitively.
func NewSelector(include, exclude []string) (*Selector, error) {
	opts := Options{CaseInsensitive: true}
	in, err := NewSet(include, opts)
	if err != nil {
		return nil, err
	}
	ex, err := NewSet(exclude, opts)
	if err != nil {
		return nil, err
	}
	return &Selector{Include: in, Exclude: ex}, nil
}

// Selects reports whether any of the names is selected.
func (s *Selector) Selects(names ...string) bool {
	included := len(s.Include) == 0
	for _, name := range names {
		if s.Exclude.Match(name) {
			return false
		}
		if !included && s.Include.Match(name) {
			included = true
		}
	}
	return included
}
