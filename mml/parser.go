// parser.go - Music Macro Language score parser

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionFM
License: GPLv3 or later
*/

// Package mml parses Music Macro Language scores into timed note events.
//
// A score is a sequence of single letter commands:
//
//	C D E F G A B   notes, followed by accidentals (+ # -) and a length
//	R               rest
//	Tn Ln On Vn     tempo, default length, octave, volume (0-100)
//	> <             octave up and down
//	[CEG]4          chord
//	{CDE}4          tuplet: the notes share one length
//	@n              tone select
//
// Lengths are note divisions (1, 2, 4, 8, 16, 32, 64, or 0 for a breve)
// with up to four dots; "4+8" ties lengths together. All lengths are
// reported in samples at the configured rate.
package mml

import (
	"fmt"
	"strconv"
)

const (
	DefaultSampleRate = 48000
	DefaultTempo      = 120
	DefaultOctave     = 4
	DefaultLength     = 4

	// MaxChordNotes bounds the notes reported for one chord; extra notes
	// are dropped without error.
	MaxChordNotes = 5

	maxDots = 4
)

// Kind identifies what a Result describes.
type Kind int

const (
	KindEOF Kind = iota
	KindNote
	KindRest
	KindTempo
	KindLength
	KindOctave
	KindVolume
	KindChord
	KindTupletStart
	KindTupletDone
	KindTone
)

var kindNames = [...]string{
	KindEOF:         "eof",
	KindNote:        "note",
	KindRest:        "rest",
	KindTempo:       "tempo",
	KindLength:      "length",
	KindOctave:      "octave",
	KindVolume:      "volume",
	KindChord:       "chord",
	KindTupletStart: "tuplet-start",
	KindTupletDone:  "tuplet-done",
	KindTone:        "tone",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Result is one parsed command.
//
// Length carries the command's value: a duration in samples for notes,
// rests, chords and tuplet starts, and the new setting for tempo, length,
// octave and volume commands. A tone command stores its number in Notes[0].
type Result struct {
	Kind     Kind
	Notes    [MaxChordNotes]int
	NumNotes int
	Length   int
}

// Config sets the parser's initial state. Zero fields take defaults.
type Config struct {
	SampleRate int
	Tempo      int
	Octave     int
	Length     int
}

func (c *Config) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.Tempo == 0 {
		c.Tempo = DefaultTempo
	}
	if c.Octave == 0 {
		c.Octave = DefaultOctave
	}
	if c.Length == 0 {
		c.Length = DefaultLength
	}
}

type parseState int

const (
	stateNormal parseState = iota
	stateTuplet
)

// Parser walks a score one command at a time.
type Parser struct {
	score string
	pos   int

	fs     int
	tempo  int
	octave int
	length int

	state        parseState
	tupletNotes  int
	curTuplet    int
	tupletLength int
}

func NewParser(score string, config Config) *Parser {
	config.applyDefaults()
	return &Parser{
		score:  score,
		fs:     config.SampleRate,
		tempo:  config.Tempo,
		octave: config.Octave,
		length: config.Length,
	}
}

// Tempo, Octave and DefaultLength report the parser's running settings.
func (p *Parser) Tempo() int         { return p.tempo }
func (p *Parser) Octave() int        { return p.octave }
func (p *Parser) DefaultLength() int { return p.length }

// Offset is the byte position of the next command.
func (p *Parser) Offset() int { return p.pos }

func (p *Parser) peek() byte {
	if p.pos < len(p.score) {
		return upper(p.score[p.pos])
	}
	return 0
}

func (p *Parser) skipSpace() {
	for p.pos < len(p.score) && isSpace(p.score[p.pos]) {
		p.pos++
	}
}

func (p *Parser) nextCode() byte {
	p.skipSpace()
	c := p.peek()
	if c != 0 {
		p.pos++
	}
	return c
}

// number consumes a run of digits. ok is false when there are none.
func (p *Parser) number() (n int, ok bool, err error) {
	start := p.pos
	for p.pos < len(p.score) && isDigit(p.score[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, false, nil
	}
	n, err = strconv.Atoi(p.score[start:p.pos])
	return n, err == nil, err
}

func (p *Parser) accidentals() int {
	n := 0
	for {
		switch p.peek() {
		case '+', '#':
			n++
		case '-':
			n--
		default:
			return n
		}
		p.pos++
	}
}

// Next parses the next command. At the end of the score it returns a
// KindEOF result, and keeps doing so on further calls.
func (p *Parser) Next() (Result, error) {
	var r Result
	start := p.pos
	code := p.nextCode()
	if code != 0 {
		start = p.pos - 1
	}

	var err error
	switch code {
	case 'A', 'B', 'C', 'D', 'E', 'F', 'G':
		err = p.note(code, &r)
	case 'R':
		err = p.rest(&r)
	case 'T':
		err = p.setTempo(&r)
	case 'L':
		err = p.setLength(&r)
	case 'O', '>', '<':
		r.Kind = KindOctave
		if !p.setOctave(code, &r) {
			err = ErrOctave
		}
	case 'V':
		err = p.volume(&r)
	case '[':
		err = p.chord(&r)
	case '{':
		err = p.startTuplet(&r)
	case '}':
		err = p.stopTuplet(&r)
	case '@':
		err = p.tone(&r)
	case 0:
		r.Kind = KindEOF
	default:
		err = ErrComposition
	}

	if err != nil {
		return r, p.syntaxError(err, start, code)
	}
	return r, nil
}

func (p *Parser) syntaxError(err error, offset int, code byte) error {
	switch e := err.(type) {
	case *SyntaxError:
		e.Offset = offset
		return e
	case ErrorCode:
		return &SyntaxError{Code: e, Offset: offset, Message: fmt.Sprintf("%s at %q", e, code)}
	}
	return &SyntaxError{Code: ErrComposition, Offset: offset, Message: err.Error()}
}

// withCause attaches the underlying length error to a syntax error code.
func withCause(code ErrorCode, cause error) error {
	return &SyntaxError{Code: code, Message: fmt.Sprintf("%s: %v", code, cause)}
}

func (p *Parser) noteIndex(code byte) int {
	return semitone(code) + p.accidentals() + p.octave*12
}

func (p *Parser) note(code byte, r *Result) error {
	r.Kind = KindNote
	r.NumNotes = 1
	if p.state == stateTuplet {
		if p.curTuplet >= p.tupletNotes {
			return ErrTooManyNotes
		}
		r.Notes[0] = p.noteIndex(code)
		r.Length = p.nextTupletLength()
		return nil
	}

	r.Notes[0] = p.noteIndex(code)
	n, err := p.sampleLength()
	if err != nil {
		return withCause(ErrNote, err)
	}
	r.Length = n
	return nil
}

func (p *Parser) rest(r *Result) error {
	r.Kind = KindRest
	if p.state == stateTuplet {
		if p.curTuplet >= p.tupletNotes {
			return ErrTooManyNotes
		}
		r.Length = p.nextTupletLength()
		return nil
	}
	n, err := p.sampleLength()
	if err != nil {
		return withCause(ErrRest, err)
	}
	r.Length = n
	return nil
}

func (p *Parser) setTempo(r *Result) error {
	r.Kind = KindTempo
	n, ok, _ := p.number()
	if !ok || n <= 0 {
		return ErrTempo
	}
	p.tempo = n
	r.Length = n
	return nil
}

func (p *Parser) setLength(r *Result) error {
	r.Kind = KindLength
	n, ok, _ := p.number()
	if !ok {
		return ErrLength
	}
	p.length = n
	r.Length = n
	return nil
}

func (p *Parser) setOctave(code byte, r *Result) bool {
	switch code {
	case '>':
		p.octave++
	case '<':
		p.octave--
	default:
		n, ok, _ := p.number()
		if !ok {
			return false
		}
		p.octave = n
	}
	r.Length = p.octave
	return true
}

func (p *Parser) volume(r *Result) error {
	r.Kind = KindVolume
	n, _, err := p.number()
	if err != nil || n > 100 {
		return ErrVolume
	}
	r.Length = n
	return nil
}

func (p *Parser) tone(r *Result) error {
	r.Kind = KindTone
	n, ok, _ := p.number()
	if !ok {
		return ErrTone
	}
	r.Notes[0] = n
	return nil
}

func (p *Parser) chord(r *Result) error {
	r.Kind = KindChord
	for {
		code := p.nextCode()
		switch {
		case code == ']':
			if p.state == stateTuplet {
				if p.curTuplet >= p.tupletNotes {
					return ErrTooManyNotes
				}
				r.Length = p.nextTupletLength()
				return nil
			}
			n, err := p.sampleLength()
			if err != nil {
				return withCause(ErrChord, err)
			}
			r.Length = n
			return nil
		case code == 0:
			return ErrChord
		case semitone(code) >= 0:
			idx := p.noteIndex(code)
			if r.NumNotes < MaxChordNotes {
				r.Notes[r.NumNotes] = idx
				r.NumNotes++
			}
		case code == 'O' || code == '>' || code == '<':
			var scratch Result
			if !p.setOctave(code, &scratch) {
				return ErrChord
			}
		default:
			return ErrChord
		}
	}
}

// countTuplet scans ahead from the current position to the closing brace,
// counting the notes, rests and chords the tuplet holds, and parses the
// tuplet length that follows it.
func (p *Parser) countTuplet() (notes, length int, err error) {
	save := p.pos
	defer func() { p.pos = save }()

	for {
		p.skipSpace()
		c := p.peek()
		switch {
		case c == 0:
			return 0, 0, ErrTuplet
		case c == '}':
			p.pos++
			length, err = p.sampleLength()
			if err != nil || notes == 0 {
				return 0, 0, ErrTuplet
			}
			return notes, length, nil
		case c == '[':
			for p.peek() != ']' && p.peek() != 0 {
				p.pos++
			}
			if p.peek() == 0 {
				return 0, 0, ErrTuplet
			}
			notes++
		case semitone(c) >= 0 || c == 'R':
			notes++
		}
		p.pos++
	}
}

func (p *Parser) startTuplet(r *Result) error {
	r.Kind = KindTupletStart
	if p.state != stateNormal {
		return ErrDoubleTuplet
	}
	notes, length, err := p.countTuplet()
	if err != nil {
		return err
	}
	p.state = stateTuplet
	p.tupletNotes = notes
	p.tupletLength = length
	p.curTuplet = 0
	r.Length = length
	return nil
}

func (p *Parser) stopTuplet(r *Result) error {
	r.Kind = KindTupletDone
	p.state = stateNormal
	// The length was consumed by startTuplet; step over it here.
	p.sampleLength()
	if p.curTuplet != p.tupletNotes {
		return ErrTooFewNotes
	}
	return nil
}

// nextTupletLength splits the tuplet length evenly; the last member takes
// the rounding surplus.
func (p *Parser) nextTupletLength() int {
	n := p.tupletLength / p.tupletNotes
	p.curTuplet++
	if p.curTuplet == p.tupletNotes {
		n = p.tupletLength - n*(p.tupletNotes-1)
	}
	return n
}

// sampleLength parses an optional length suffix ("8", "4.", "2+8", ".")
// and converts it to samples. Without a suffix the default length applies.
func (p *Parser) sampleLength() (int, error) {
	total := 0
	for {
		div := -1
		if n, ok, err := p.number(); err != nil {
			return 0, err
		} else if ok {
			div = n
		}
		dots := 0
		for p.peek() == '.' {
			dots++
			p.pos++
		}
		if div < 0 {
			div = p.length
		}
		n, err := Samples(p.fs, p.tempo, div, dots)
		if err != nil {
			return 0, err
		}
		total += n

		if p.peek() != '+' {
			return total, nil
		}
		p.pos++
		if !isDigit(p.peekRaw()) {
			return 0, errTieWithoutLength
		}
	}
}

func (p *Parser) peekRaw() byte {
	if p.pos < len(p.score) {
		return p.score[p.pos]
	}
	return 0
}

// Samples converts a note division with dots to a duration in samples
// at sample rate fs and the given tempo in quarter notes per minute.
func Samples(fs, tempo, division, dots int) (int, error) {
	shift, div := 0, 0
	switch division {
	case 0:
		shift = 3
	case 1:
		shift = 2
	case 2:
		shift = 1
	case 4:
	case 8:
		div = 1
	case 16:
		div = 2
	case 32:
		div = 3
	case 64:
		div = 4
	default:
		return 0, fmt.Errorf("mml: unsupported note division %d", division)
	}
	if dots < 0 || dots > maxDots {
		return 0, fmt.Errorf("mml: too many dots (%d)", dots)
	}
	if tempo <= 0 {
		return 0, fmt.Errorf("mml: invalid tempo %d", tempo)
	}

	mul := 16
	for d := dots; d > 0; d-- {
		mul += 1 << (4 - d)
	}
	return (((15 * fs * mul) << shift) >> (2 + div)) / tempo, nil
}

// semitone maps a note letter to its offset from C, or -1.
func semitone(c byte) int {
	switch c {
	case 'C':
		return 0
	case 'D':
		return 2
	case 'E':
		return 4
	case 'F':
		return 5
	case 'G':
		return 7
	case 'A':
		return 9
	case 'B':
		return 11
	}
	return -1
}

var noteNames = [12]string{"C", "C+", "D", "D+", "E", "F", "F+", "G", "G+", "A", "A+", "B"}

// NoteName formats a note index as octave and pitch, e.g. "O4C+".
func NoteName(idx int) string {
	if idx < 0 {
		return "O?" + strconv.Itoa(idx)
	}
	return "O" + strconv.Itoa(idx/12) + noteNames[idx%12]
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
