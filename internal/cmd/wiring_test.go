package cmd

import "testing"

func TestContainsStatus(t *testing.T) {
	cases := []struct {
		content string
		status  string
		want    bool
	}{
		{"STATUS: ABORT\nreason: stuck in a loop", "ABORT", true},
		{"STATUS: CONTINUE", "ABORT", false},
		{"this mentions ABORT but not as a status line", "ABORT", false},
	}
	for _, c := range cases {
		if got := containsStatus(c.content, c.status); got != c.want {
			t.Errorf("containsStatus(%q, %q) = %v, want %v", c.content, c.status, got, c.want)
		}
	}
}
