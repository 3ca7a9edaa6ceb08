package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/intuitionamiga/IntuitionFM/mml"
)

// Summary counts what a part contains.
type Summary struct {
	Events  int
	Notes   int
	Samples int
}

// Lister prints the event stream of MML parts with timestamps.
type Lister struct {
	sampleRate int
	tempo      int
	quiet      bool
	w          io.Writer
}

// NewLister creates a Lister writing to w.
func NewLister(w io.Writer, sampleRate, tempo int) *Lister {
	return &Lister{sampleRate: sampleRate, tempo: tempo, w: w}
}

// ListPart parses one part to the end. Syntax errors come back as
// "file:offset: message", with the part name after the file for scores.
func (l *Lister) ListPart(file string, part mml.Part) (Summary, error) {
	cfg := mml.Config{SampleRate: l.sampleRate, Tempo: l.tempo}
	if part.Name == "L" {
		cfg.Octave = 3
	}
	p := mml.NewParser(part.Source, cfg)

	var sum Summary
	for {
		r, err := p.Next()
		if err != nil {
			return sum, locate(file, part.Name, err)
		}
		if r.Kind == mml.KindEOF {
			return sum, nil
		}
		sum.Events++
		if !l.quiet {
			seconds := float64(sum.Samples) / float64(l.sampleRate)
			fmt.Fprintf(l.w, "%-2s %9d %9.3fs  %-13s %s\n", part.Name, sum.Samples, seconds, r.Kind, Describe(r))
		}
		switch r.Kind {
		case mml.KindNote, mml.KindChord:
			sum.Notes += r.NumNotes
			sum.Samples += r.Length
		case mml.KindRest:
			sum.Samples += r.Length
		}
	}
}

func locate(file, part string, err error) error {
	where := file
	if part != "" {
		where = fmt.Sprintf("%s[%s]", file, part)
	}
	var se *mml.SyntaxError
	if errors.As(err, &se) {
		return fmt.Errorf("%s:%d: %s", where, se.Offset, se.Message)
	}
	return fmt.Errorf("%s: %w", where, err)
}

// Describe renders one parser result the way it would be written in MML.
func Describe(r mml.Result) string {
	switch r.Kind {
	case mml.KindNote:
		return fmt.Sprintf("%s (%d)", mml.NoteName(r.Notes[0]), r.Length)
	case mml.KindChord:
		names := make([]string, r.NumNotes)
		for i := range names {
			names[i] = mml.NoteName(r.Notes[i])
		}
		return fmt.Sprintf("[%s] (%d)", strings.Join(names, " "), r.Length)
	case mml.KindRest:
		return fmt.Sprintf("R (%d)", r.Length)
	case mml.KindTempo:
		return fmt.Sprintf("T%d", r.Length)
	case mml.KindLength:
		return fmt.Sprintf("L%d", r.Length)
	case mml.KindOctave:
		return fmt.Sprintf("O%d", r.Length)
	case mml.KindVolume:
		return fmt.Sprintf("V%d", r.Length)
	case mml.KindTone:
		return fmt.Sprintf("@%d", r.Notes[0])
	case mml.KindTupletStart:
		return fmt.Sprintf("{ (%d)", r.Length)
	case mml.KindTupletDone:
		return "}"
	}
	return ""
}
