// render.go - Per-sample operator graph evaluation

package fmsynth

import "fmt"

// Render writes frames interleaved frames of channels samples each into out.
// The mono result of snd's chain is replicated across channels. When
// secondary is non-nil its chain is added with the given weight; the sum is
// not normalised and saturates at the int16 limits.
//
// A secondary sound that is snd itself or linked into either subsound chain
// is rejected with ErrAlreadyLinked, since each operator is stepped once per
// frame.
//
// Render does not allocate. It returns the number of samples written.
func (s *Synth) Render(snd *Sound, out []int16, frames, channels int, secondary *Sound, weight float32) (int, error) {
	if err := s.checkSound(snd); err != nil {
		return 0, err
	}
	if secondary != nil {
		if err := s.checkSound(secondary); err != nil {
			return 0, err
		}
		if chainHas(snd, secondary) || chainHas(secondary, snd) {
			return 0, fmt.Errorf("%w: secondary sound shares the primary's subsound chain", ErrAlreadyLinked)
		}
	}
	if frames < 0 || channels < 1 {
		return 0, fmt.Errorf("%w: frames=%d channels=%d", ErrInvalidBuffer, frames, channels)
	}
	n := frames * channels
	if len(out) < n {
		return 0, fmt.Errorf("%w: need %d samples, have %d", ErrInvalidBuffer, n, len(out))
	}

	// Frequencies are latched once per call.
	s.latch(snd)
	s.latch(secondary)

	pos := 0
	for f := 0; f < frames; f++ {
		s.snapshotFeedback()

		v := s.evalSounds(snd)
		if secondary != nil {
			v += weight * s.evalSounds(secondary)
		}

		q := quantize(v)
		for c := 0; c < channels; c++ {
			out[pos] = q
			pos++
		}
	}
	return n, nil
}

func chainHas(head, snd *Sound) bool {
	for ; head != nil; head = head.next {
		if head == snd {
			return true
		}
	}
	return false
}

func (s *Synth) latch(snd *Sound) {
	for ; snd != nil; snd = snd.next {
		snd.inc = snd.freq / s.fs
	}
}

// snapshotFeedback loads every feedback offset from the previous sample's
// outputs before anything of the current sample is evaluated.
func (s *Synth) snapshotFeedback() {
	for i := range s.ops {
		o := &s.ops[i]
		if !o.live || o.fbSrc == nilOp {
			continue
		}
		o.fbOffset = float64(o.fbDepth * s.ops[o.fbSrc].last)
	}
}

func (s *Synth) evalSounds(snd *Sound) float32 {
	var sum float32
	for ; snd != nil; snd = snd.next {
		if snd.root == nilOp {
			continue
		}
		sum += snd.volume * s.evalChain(snd.root, snd.inc)
	}
	return sum
}

// evalChain sums an operator and its parallel successors.
func (s *Synth) evalChain(idx int32, inc float64) float32 {
	var sum float32
	for idx != nilOp {
		o := &s.ops[idx]
		sum += s.evalOperator(o, inc)
		idx = o.next
	}
	return sum
}

func (s *Synth) evalOperator(o *operator, inc float64) float32 {
	o.phase = wrapPhase(o.phase + inc*o.ratio)

	p := o.phase + o.fbOffset
	if o.mod != nilOp {
		p += float64(s.evalChain(o.mod, inc))
	}

	v := o.wave.eval(p) * o.env.operate()
	o.last = v
	return v
}

func quantize(v float32) int16 {
	x := v * 32767
	switch {
	case x >= 32767:
		return 32767
	case x <= -32768:
		return -32768
	}
	return int16(x)
}
