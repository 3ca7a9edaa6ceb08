// score_test.go - Score file tests

package mml

import (
	"strings"
	"testing"
)

func TestReadScore(t *testing.T) {
	src := "# waltz\nR: T120 C\nL: O3 C\n\n r: D \n"
	score, err := ReadScore(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(strings.Fields(score.Right), " "); got != "T120 C D" {
		t.Errorf("right hand = %q", got)
	}
	if got := strings.Join(strings.Fields(score.Left), " "); got != "O3 C" {
		t.Errorf("left hand = %q", got)
	}

	for _, bad := range []string{"C D E\n", "X: C\n"} {
		if _, err := ReadScore(strings.NewReader(bad)); err == nil || !strings.Contains(err.Error(), "line 1") {
			t.Errorf("ReadScore(%q) = %v, want a line 1 error", bad, err)
		}
	}
}

func TestScore_Parts(t *testing.T) {
	parts := Score{Right: "C", Left: "  "}.Parts()
	if len(parts) != 1 || parts[0].Name != "R" {
		t.Fatalf("parts = %+v", parts)
	}
	parts = Score{Right: "C", Left: "D"}.Parts()
	if len(parts) != 2 || parts[1].Name != "L" || parts[1].Source != "D" {
		t.Fatalf("parts = %+v", parts)
	}
}
