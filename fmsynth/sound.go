// sound.go - Sounds: a root operator played at a base frequency

package fmsynth

// Sound binds a root operator tree to a base frequency and a volume.
// Sounds can be chained with AddSubsound and rendered together.
type Sound struct {
	synth *Synth

	root   int32
	freq   float64
	inc    float64
	volume float32

	next    *Sound
	prev    *Sound
	deleted bool
}

func (s *Synth) NewSound() (*Sound, error) {
	if len(s.sounds) >= s.maxSounds {
		return nil, ErrNoSpace
	}
	snd := &Sound{synth: s, root: nilOp, volume: 1}
	s.sounds = append(s.sounds, snd)
	return snd, nil
}

func (s *Synth) checkSound(snd *Sound) error {
	if snd == nil || snd.deleted || snd.synth != s {
		return ErrStaleSound
	}
	return nil
}

// DeleteSound removes snd from its subsound chain and releases its root.
// The operators stay alive.
func (s *Synth) DeleteSound(snd *Sound) error {
	if err := s.checkSound(snd); err != nil {
		return err
	}
	if snd.prev != nil {
		snd.prev.next = snd.next
	}
	if snd.next != nil {
		snd.next.prev = snd.prev
	}
	snd.next, snd.prev = nil, nil

	if snd.root != nilOp {
		s.ops[snd.root].rooted = false
		snd.root = nilOp
	}
	for i, other := range s.sounds {
		if other == snd {
			s.sounds = append(s.sounds[:i], s.sounds[i+1:]...)
			break
		}
	}
	snd.deleted = true
	return nil
}

// SetSoundOperator makes op the root of snd and starts the envelopes of
// every operator reachable from it. A previous root is released.
func (s *Synth) SetSoundOperator(snd *Sound, op Operator) error {
	if err := s.checkSound(snd); err != nil {
		return err
	}
	o, err := s.resolve(op)
	if err != nil {
		return err
	}
	if snd.root != op.index {
		if o.prevKind != linkNone || o.rooted {
			return ErrAlreadyLinked
		}
		if snd.root != nilOp {
			s.ops[snd.root].rooted = false
		}
		snd.root = op.index
		o.rooted = true
	}
	s.noteOnChain(snd.root)
	return nil
}

// SetSoundFrequency sets the base frequency in Hz. Samples already rendered
// are unaffected; the next Render call picks the new value up.
func (s *Synth) SetSoundFrequency(snd *Sound, hz float64) error {
	if err := s.checkSound(snd); err != nil {
		return err
	}
	snd.freq = hz
	return nil
}

// SetSoundVolume scales the sound's output. New sounds have volume 1.
func (s *Synth) SetSoundVolume(snd *Sound, volume float32) error {
	if err := s.checkSound(snd); err != nil {
		return err
	}
	snd.volume = volume
	return nil
}

// NoteOn restarts every envelope of the sound from ATTACK. Phases keep
// running.
func (s *Synth) NoteOn(snd *Sound) error {
	if err := s.checkSound(snd); err != nil {
		return err
	}
	s.noteOnChain(snd.root)
	return nil
}

// NoteOff moves every envelope of the sound to RELEASE.
func (s *Synth) NoteOff(snd *Sound) error {
	if err := s.checkSound(snd); err != nil {
		return err
	}
	s.noteOffChain(snd.root)
	return nil
}

// AddSubsound appends child (and any subsounds already chained after it)
// to the end of parent's chain.
func (s *Synth) AddSubsound(parent, child *Sound) error {
	if err := s.checkSound(parent); err != nil {
		return err
	}
	if err := s.checkSound(child); err != nil {
		return err
	}
	if child.prev != nil {
		return ErrAlreadyLinked
	}
	for c := child; c != nil; c = c.next {
		if c == parent {
			return ErrCycle
		}
	}
	tail := parent
	for tail.next != nil {
		tail = tail.next
	}
	tail.next = child
	child.prev = tail
	return nil
}

// Frequency returns the base frequency set by SetSoundFrequency.
func (snd *Sound) Frequency() float64 { return snd.freq }

// Root returns the sound's root operator, or the zero handle.
func (snd *Sound) Root() Operator {
	if snd.root == nilOp || snd.synth == nil {
		return Operator{}
	}
	return Operator{index: snd.root, gen: snd.synth.ops[snd.root].gen}
}
