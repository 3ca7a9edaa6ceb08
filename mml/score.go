// score.go - Two-hand score files

package mml

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Score holds the right and left hand parts of a piece.
type Score struct {
	Right string
	Left  string
}

// Part is one named voice line of a score.
type Part struct {
	Name   string
	Source string
}

// Parts lists the score's non-empty parts, right hand first.
func (sc Score) Parts() []Part {
	var parts []Part
	if strings.TrimSpace(sc.Right) != "" {
		parts = append(parts, Part{Name: "R", Source: sc.Right})
	}
	if strings.TrimSpace(sc.Left) != "" {
		parts = append(parts, Part{Name: "L", Source: sc.Left})
	}
	return parts
}

// ReadScore reads a score file. Each line starts with "R:" or "L:" and the
// lines of a hand are joined in order. Blank lines and lines starting with
// '#' are skipped.
func ReadScore(r io.Reader) (Score, error) {
	var right, left strings.Builder
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		hand, body, ok := strings.Cut(text, ":")
		if !ok {
			return Score{}, fmt.Errorf("line %d: missing R: or L: prefix", line)
		}
		switch strings.ToUpper(strings.TrimSpace(hand)) {
		case "R":
			right.WriteString(body)
			right.WriteByte(' ')
		case "L":
			left.WriteString(body)
			left.WriteByte(' ')
		default:
			return Score{}, fmt.Errorf("line %d: unknown hand %q", line, hand)
		}
	}
	if err := sc.Err(); err != nil {
		return Score{}, err
	}
	return Score{Right: right.String(), Left: left.String()}, nil
}
