package matcher

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		patternType PatternType
		pattern     string
		opts        []Options
		wantType    PatternType
		matches     []string
		misses      []string
		wantErr     bool
	}{
		{
			name:        "glob",
			patternType: Glob,
			pattern:     "subnet-*",
			wantType:    Glob,
			matches:     []string{"subnet-a", "subnet-"},
			misses:      []string{"my-subnet-a", "Subnet-a"},
		},
		{
			name:        "glob case insensitive",
			patternType: Glob,
			pattern:     "VLAN?",
			opts:        []Options{{CaseInsensitive: true}},
			wantType:    Glob,
			matches:     []string{"vlan1", "VLANx"},
			misses:      []string{"vlan10"},
		},
		{
			name:        "regex",
			patternType: Regex,
			pattern:     `^dc\d+`,
			wantType:    Regex,
			matches:     []string{"dc1", "dc42-core"},
			misses:      []string{"sdc1"},
		},
		{
			name:        "auto detects regex",
			patternType: Auto,
			pattern:     "core|edge",
			wantType:    Regex,
			matches:     []string{"core switch", "edge"},
			misses:      []string{"access"},
		},
		{
			name:        "auto defaults to glob",
			patternType: Auto,
			pattern:     "lab*",
			wantType:    Glob,
			matches:     []string{"lab section"},
		},
		{
			name:        "invalid glob",
			patternType: Glob,
			pattern:     "[",
			wantErr:     true,
		},
		{
			name:        "invalid regex",
			patternType: Regex,
			pattern:     "(",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern, tt.opts...)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) expected error", tt.pattern)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q) failed: %v", tt.pattern, err)
			}
			if m.Type() != tt.wantType {
				t.Errorf("Type() = %v, want %v", m.Type(), tt.wantType)
			}
			if m.Pattern() != tt.pattern {
				t.Errorf("Pattern() = %q, want %q", m.Pattern(), tt.pattern)
			}
			for _, in := range tt.matches {
				if !m.Match(in) {
					t.Errorf("Match(%q) = false, want true", in)
				}
			}
			for _, in := range tt.misses {
				if m.Match(in) {
					t.Errorf("Match(%q) = true, want false", in)
				}
			}
		})
	}
}

func TestSelector(t *testing.T) {
	s, err := NewSelector([]string{"subnet*", "vlan"}, []string{"*-old"})
	if err != nil {
		t.Fatalf("NewSelector() failed: %v", err)
	}

	tests := []struct {
		names []string
		want  bool
	}{
		{[]string{"Subnet-a"}, true},
		{[]string{"core", "vlan"}, true},
		{[]string{"subnet-old"}, false},
		{[]string{"vlan", "vlan-old"}, false},
		{[]string{"section"}, false},
	}
	for _, tt := range tests {
		if got := s.Selects(tt.names...); got != tt.want {
			t.Errorf("Selects(%v) = %v, want %v", tt.names, got, tt.want)
		}
	}
}

func TestSelectorEmptyIncludesAll(t *testing.T) {
	s, err := NewSelector(nil, []string{"tag"})
	if err != nil {
		t.Fatalf("NewSelector() failed: %v", err)
	}
	if !s.Selects("section") {
		t.Error("empty include set should select everything")
	}
	if s.Selects("tag") {
		t.Error("excluded name selected")
	}
}

func TestNewSelectorInvalid(t *testing.T) {
	if _, err := NewSelector([]string{"("}, nil); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
