package telemetry

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input).String(); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	if l == nil {
		t.Fatal("Nop() returned nil")
	}
	l.Infow("discarded", "relation", "books")
	if err := l.Sync(); err != nil {
		t.Errorf("Sync() on nop logger returned %v", err)
	}
}

func TestWithRelation(t *testing.T) {
	l := New("debug")
	scoped := l.WithRelation("AuthorBooks", "Book")
	if scoped == l {
		t.Error("WithRelation should return a new logger instance")
	}
	scoped.Debugw("dispatch relation")
	_ = l.Sync()
}
