// operator.go - Operator handles, links and feedback bindings

package fmsynth

// Operator is a handle to an operator slot of a Synth. The zero value never
// refers to a live operator.
type Operator struct {
	index int32
	gen   uint32
}

// IsZero reports whether op is the zero handle.
func (op Operator) IsZero() bool { return op.gen == 0 }

type linkKind uint8

const (
	linkNone     linkKind = iota
	linkModulate          // head of the predecessor's modulator chain
	linkParallel          // parallel successor of the predecessor
)

type operator struct {
	gen  uint32
	live bool

	wave  Waveform
	ratio float64
	phase float64
	env   envelope

	fbSrc    int32
	fbDepth  float32
	fbOffset float64
	last     float32

	mod  int32 // head of the modulator chain
	next int32 // parallel successor

	prev     int32
	prevKind linkKind
	rooted   bool
}

func (s *Synth) resolve(op Operator) (*operator, error) {
	if op.index < 0 || int(op.index) >= len(s.ops) {
		return nil, ErrStaleOperator
	}
	o := &s.ops[op.index]
	if !o.live || o.gen != op.gen {
		return nil, ErrStaleOperator
	}
	return o, nil
}

// NewOperator takes a slot from the arena. The operator starts silent
// (WaveNone) with an identity envelope, ratio 1 and no links.
func (s *Synth) NewOperator() (Operator, error) {
	n := len(s.free)
	if n == 0 {
		return Operator{}, ErrNoSpace
	}
	idx := s.free[n-1]
	s.free = s.free[:n-1]

	o := &s.ops[idx]
	gen := o.gen
	*o = operator{
		gen:   gen,
		live:  true,
		ratio: 1,
		fbSrc: nilOp,
		mod:   nilOp,
		next:  nilOp,
		prev:  nilOp,
	}
	o.env.reset(s.sampleRate)
	return Operator{index: idx, gen: gen}, nil
}

// SetEnvelope replaces the envelope table. A stage already in progress keeps
// the values it started with.
func (s *Synth) SetEnvelope(op Operator, levels EnvelopeLevels) error {
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	if err := levels.validate(); err != nil {
		return err
	}
	o.env.levels = levels
	return nil
}

func (s *Synth) SelectWaveform(op Operator, w Waveform) error {
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	if w >= waveCount {
		return ErrInvalidWaveform
	}
	o.wave = w
	return nil
}

// SetFrequencyRatio sets the operator frequency as a multiple of the owning
// sound's base frequency.
func (s *Synth) SetFrequencyRatio(op Operator, ratio float64) error {
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	o.ratio = ratio
	return nil
}

// BindFeedback feeds depth times src's previous output into op's phase.
// src may be op itself.
func (s *Synth) BindFeedback(op, src Operator, depth float32) error {
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	if _, err := s.resolve(src); err != nil {
		return err
	}
	o.fbSrc = src.index
	o.fbDepth = depth
	o.fbOffset = 0
	return nil
}

func (s *Synth) UnbindFeedback(op Operator) error {
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	o.fbSrc = nilOp
	o.fbDepth = 0
	o.fbOffset = 0
	return nil
}

// reaches reports whether target is reachable from idx through modulator
// and parallel links.
func (s *Synth) reaches(idx, target int32) bool {
	for idx != nilOp {
		if idx == target {
			return true
		}
		o := &s.ops[idx]
		if o.mod != nilOp && s.reaches(o.mod, target) {
			return true
		}
		idx = o.next
	}
	return false
}

// attachable checks that child can take a new incoming link under parent.
func (s *Synth) attachable(parent, child Operator) (*operator, *operator, error) {
	p, err := s.resolve(parent)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.resolve(child)
	if err != nil {
		return nil, nil, err
	}
	if parent == child || s.reaches(child.index, parent.index) {
		return nil, nil, ErrCycle
	}
	if c.prevKind != linkNone || c.rooted {
		return nil, nil, ErrAlreadyLinked
	}
	return p, c, nil
}

func (s *Synth) chainTail(idx int32) int32 {
	for s.ops[idx].next != nilOp {
		idx = s.ops[idx].next
	}
	return idx
}

// ParallelCombine appends b to the end of a's parallel chain; their outputs
// are summed.
func (s *Synth) ParallelCombine(a, b Operator) error {
	_, c, err := s.attachable(a, b)
	if err != nil {
		return err
	}
	tail := s.chainTail(a.index)
	s.ops[tail].next = b.index
	c.prev = tail
	c.prevKind = linkParallel
	return nil
}

// Cascade appends modulator to the bottom of carrier's modulator stack: the
// first call modulates carrier directly, each later call modulates the
// previously deepest modulator. Use ParallelCombine on a modulator to sum
// several modulators at the same depth.
func (s *Synth) Cascade(carrier, modulator Operator) error {
	p, c, err := s.attachable(carrier, modulator)
	if err != nil {
		return err
	}
	host := carrier.index
	for p.mod != nilOp {
		host = p.mod
		p = &s.ops[host]
	}
	p.mod = modulator.index
	c.prev = host
	c.prevKind = linkModulate
	return nil
}

// DeleteOperator releases op's slot. Feedback bindings that read op are
// cleared and op is spliced out of any chain, its parallel successor taking
// its place. Modulators cascaded into op are detached but stay alive.
func (s *Synth) DeleteOperator(op Operator) error {
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	idx := op.index

	for i := range s.ops {
		if s.ops[i].live && s.ops[i].fbSrc == idx {
			s.ops[i].fbSrc = nilOp
			s.ops[i].fbDepth = 0
			s.ops[i].fbOffset = 0
		}
	}

	succ := o.next
	if succ != nilOp {
		n := &s.ops[succ]
		n.prev = o.prev
		n.prevKind = o.prevKind
	}
	switch o.prevKind {
	case linkModulate:
		s.ops[o.prev].mod = succ
	case linkParallel:
		s.ops[o.prev].next = succ
	}
	if o.rooted {
		for _, snd := range s.sounds {
			if snd.root == idx {
				snd.root = succ
			}
		}
		if succ != nilOp {
			s.ops[succ].rooted = true
		}
	}

	if o.mod != nilOp {
		m := &s.ops[o.mod]
		m.prev = nilOp
		m.prevKind = linkNone
	}

	o.live = false
	o.gen++
	if o.gen == 0 {
		o.gen = 1
	}
	o.mod, o.next, o.prev, o.fbSrc = nilOp, nilOp, nilOp, nilOp
	o.prevKind = linkNone
	o.rooted = false
	s.free = append(s.free, idx)
	return nil
}

// Output returns the operator's most recent sample output.
func (s *Synth) Output(op Operator) (float32, error) {
	o, err := s.resolve(op)
	if err != nil {
		return 0, err
	}
	return o.last, nil
}

// EnvelopeGain returns the gain the envelope will apply to the next sample.
func (s *Synth) EnvelopeGain(op Operator) (float32, error) {
	o, err := s.resolve(op)
	if err != nil {
		return 0, err
	}
	if o.env.state == envIdle {
		return 0, nil
	}
	return o.env.level, nil
}

// EnvelopeStageName names the envelope's current stage.
func (s *Synth) EnvelopeStageName(op Operator) (string, error) {
	o, err := s.resolve(op)
	if err != nil {
		return "", err
	}
	return o.env.state.String(), nil
}

func (s *Synth) noteOnChain(idx int32) {
	for idx != nilOp {
		o := &s.ops[idx]
		o.env.noteOn()
		s.noteOnChain(o.mod)
		idx = o.next
	}
}

func (s *Synth) noteOffChain(idx int32) {
	for idx != nilOp {
		o := &s.ops[idx]
		o.env.noteOff()
		s.noteOffChain(o.mod)
		idx = o.next
	}
}

// Tree lists op and every operator reachable from it through modulator and
// parallel links, depth first.
func (s *Synth) Tree(op Operator) ([]Operator, error) {
	if _, err := s.resolve(op); err != nil {
		return nil, err
	}
	var out []Operator
	s.collect(op.index, &out)
	return out, nil
}

func (s *Synth) collect(idx int32, out *[]Operator) {
	for idx != nilOp {
		o := &s.ops[idx]
		*out = append(*out, Operator{index: idx, gen: o.gen})
		s.collect(o.mod, out)
		idx = o.next
	}
}
