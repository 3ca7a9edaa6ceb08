// envelope.go - Five stage envelope generator

package fmsynth

// EnvelopeStage is one (target level, duration) pair of an envelope table.
// Level is a unit gain; values outside [0, 1] are not rejected.
type EnvelopeStage struct {
	Level    float32
	PeriodMs int
}

// EnvelopeLevels is the full envelope table, in execution order.
type EnvelopeLevels struct {
	Attack     EnvelopeStage
	DecayBreak EnvelopeStage
	Decay      EnvelopeStage
	Sustain    EnvelopeStage
	Release    EnvelopeStage
}

// identityLevels jumps to full gain on activation and holds it.
var identityLevels = EnvelopeLevels{
	Attack:     EnvelopeStage{Level: 1},
	DecayBreak: EnvelopeStage{Level: 1},
	Decay:      EnvelopeStage{Level: 1},
	Sustain:    EnvelopeStage{Level: 1},
	Release:    EnvelopeStage{Level: 0},
}

func (l *EnvelopeLevels) validate() error {
	for _, st := range [...]EnvelopeStage{l.Attack, l.DecayBreak, l.Decay, l.Sustain, l.Release} {
		if st.PeriodMs < 0 {
			return ErrInvalidEnvelope
		}
	}
	return nil
}

type envState uint8

const (
	envIdle envState = iota
	envAttack
	envDecayBreak
	envDecay
	envSustain
	envRelease
)

func (st envState) String() string {
	switch st {
	case envIdle:
		return "idle"
	case envAttack:
		return "attack"
	case envDecayBreak:
		return "decay-break"
	case envDecay:
		return "decay"
	case envSustain:
		return "sustain"
	case envRelease:
		return "release"
	}
	return "unknown"
}

type envelope struct {
	levels EnvelopeLevels
	fs     int

	state   envState
	start   float32
	target  float32
	samples int
	counter int
	level   float32

	// Stage ends are taken from the running millisecond total so truncation
	// does not accumulate across stages.
	cumMs  int
	cumEnd int
}

func (e *envelope) reset(fs int) {
	*e = envelope{levels: identityLevels, fs: fs}
}

func (e *envelope) stage(st envState) EnvelopeStage {
	switch st {
	case envAttack:
		return e.levels.Attack
	case envDecayBreak:
		return e.levels.DecayBreak
	case envDecay:
		return e.levels.Decay
	case envSustain:
		return e.levels.Sustain
	case envRelease:
		return e.levels.Release
	}
	return EnvelopeStage{}
}

func nextEnvState(st envState) envState {
	switch st {
	case envAttack:
		return envDecayBreak
	case envDecayBreak:
		return envDecay
	case envDecay:
		return envSustain
	case envRelease:
		return envIdle
	}
	return st
}

// enter switches to st ramping from level "from". Stages with a zero period
// are passed through in the same call; sustain stops the chain since it
// holds until release.
func (e *envelope) enter(st envState, from float32) {
	for {
		e.state = st
		e.start = from
		e.counter = 0
		if st == envIdle {
			e.samples = 0
			e.target = 0
			e.level = 0
			return
		}

		stage := e.stage(st)
		e.target = stage.Level
		e.cumMs += stage.PeriodMs
		end := e.cumMs * e.fs / 1000
		e.samples = end - e.cumEnd
		e.cumEnd = end
		if e.samples > 0 {
			e.level = from
			return
		}

		e.level = e.target
		if st == envSustain {
			return
		}
		from = e.target
		st = nextEnvState(st)
	}
}

func (e *envelope) noteOn() {
	e.cumMs, e.cumEnd = 0, 0
	e.enter(envAttack, 0)
}

func (e *envelope) noteOff() {
	if e.state == envIdle || e.state == envRelease {
		return
	}
	e.cumMs, e.cumEnd = 0, 0
	e.enter(envRelease, e.level)
}

// operate returns the gain for the current sample and advances one tick.
func (e *envelope) operate() float32 {
	switch e.state {
	case envIdle:
		return 0
	case envSustain:
		if e.counter >= e.samples {
			return e.level
		}
	}

	out := e.level
	e.counter++
	if e.counter < e.samples {
		e.level = e.start + (e.target-e.start)*float32(e.counter)/float32(e.samples)
		return out
	}

	if e.state == envSustain {
		e.level = e.target
		return out
	}
	e.enter(nextEnvState(e.state), e.target)
	return out
}
