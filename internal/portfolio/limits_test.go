package portfolio

import (
	"strings"
	"testing"
)

func TestEvaluateLimit(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		max      int
		exceeded bool
	}{
		{name: "under the cap", count: 0, max: 1, exceeded: false},
		{name: "at the cap", count: 1, max: 1, exceeded: true},
		{name: "over the cap", count: 3, max: 1, exceeded: true},
		{name: "zero max disables", count: 10, max: 0, exceeded: false},
		{name: "negative max disables", count: 10, max: -1, exceeded: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateLimit("buy", tt.count, tt.max)
			if got.Exceeded != tt.exceeded {
				t.Errorf("Expected exceeded=%v, got %v", tt.exceeded, got.Exceeded)
			}
			if tt.exceeded && got.Warning == "" {
				t.Error("Expected a warning message when the cap is reached")
			}
			if !tt.exceeded && got.Warning != "" {
				t.Errorf("Expected no warning, got %q", got.Warning)
			}
		})
	}
}

func TestEvaluateLimit_WarningNamesKind(t *testing.T) {
	got := EvaluateLimit("sell", 2, 1)
	if !strings.Contains(got.Warning, "sell") {
		t.Errorf("Expected warning to name the action kind, got %q", got.Warning)
	}
	if !strings.Contains(got.Warning, "2/1") {
		t.Errorf("Expected warning to carry the counts, got %q", got.Warning)
	}
}
