// patch_lua.go - Operator graphs described by Lua scripts

package main

import (
	"fmt"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
	lua "github.com/yuin/gopher-lua"
)

const luaOperatorType = "fm.operator"

// luaPatch builds one operator graph. Operators created by the script are
// remembered so a failed script leaves nothing behind.
type luaPatch struct {
	synth *fmsynth.Synth
	built []fmsynth.Operator
}

// loadPatch runs the script at path and returns the operator it returns.
//
//	local fm = require("fm")
//	local car = fm.operator("sine")
//	local mod = fm.operator("sine")
//	fm.ratio(mod, 2)
//	fm.feedback(mod, mod, 0.3)
//	fm.cascade(car, mod)
//	return car
func loadPatch(s *fmsynth.Synth, path string) (fmsynth.Operator, error) {
	root, err := runPatch(s, func(L *lua.LState) error { return L.DoFile(path) })
	if err != nil {
		return root, fmt.Errorf("patch %s: %w", path, err)
	}
	return root, nil
}

func loadPatchString(s *fmsynth.Synth, name, source string) (fmsynth.Operator, error) {
	root, err := runPatch(s, func(L *lua.LState) error { return L.DoString(source) })
	if err != nil {
		return root, fmt.Errorf("patch %s: %w", name, err)
	}
	return root, nil
}

func runPatch(s *fmsynth.Synth, run func(L *lua.LState) error) (root fmsynth.Operator, err error) {
	p := &luaPatch{synth: s}
	L := lua.NewState()
	defer L.Close()

	mt := L.NewTypeMetatable(luaOperatorType)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		op := p.check(L, 1)
		L.Push(lua.LString(fmt.Sprintf("operator%+v", op)))
		return 1
	}))
	L.PreloadModule("fm", p.loader)

	defer func() {
		if err != nil {
			for _, op := range p.built {
				s.DeleteOperator(op)
			}
		}
	}()

	top := L.GetTop()
	if err = run(L); err != nil {
		return fmsynth.Operator{}, err
	}
	if L.GetTop() == top {
		return fmsynth.Operator{}, fmt.Errorf("script returned nothing, want the root operator")
	}
	ud, ok := L.Get(top + 1).(*lua.LUserData)
	if !ok {
		return fmsynth.Operator{}, fmt.Errorf("script returned %s, want the root operator", L.Get(top+1).Type())
	}
	root, ok = ud.Value.(fmsynth.Operator)
	if !ok {
		return fmsynth.Operator{}, fmt.Errorf("script returned a foreign userdata")
	}
	return root, nil
}

func (p *luaPatch) loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"operator":  p.operator,
		"waveform":  p.waveform,
		"envelope":  p.envelope,
		"ratio":     p.ratio,
		"feedback":  p.feedback,
		"cascade":   p.cascade,
		"parallel":  p.parallel,
		"unfeed":    p.unfeed,
		"waveforms": p.waveforms,
	})
	L.Push(mod)
	return 1
}

func (p *luaPatch) push(L *lua.LState, op fmsynth.Operator) {
	ud := L.NewUserData()
	ud.Value = op
	L.SetMetatable(ud, L.GetTypeMetatable(luaOperatorType))
	L.Push(ud)
}

func (p *luaPatch) check(L *lua.LState, n int) fmsynth.Operator {
	ud := L.CheckUserData(n)
	op, ok := ud.Value.(fmsynth.Operator)
	if !ok {
		L.ArgError(n, "operator expected")
	}
	return op
}

func (p *luaPatch) raise(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%v", err)
	}
}

func (p *luaPatch) checkWaveform(L *lua.LState, n int) fmsynth.Waveform {
	w, err := fmsynth.ParseWaveform(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return w
}

// fm.operator([waveform]) creates an operator, sine unless named.
func (p *luaPatch) operator(L *lua.LState) int {
	w := fmsynth.WaveSine
	if L.GetTop() >= 1 {
		w = p.checkWaveform(L, 1)
	}
	op, err := p.synth.NewOperator()
	p.raise(L, err)
	p.built = append(p.built, op)
	p.raise(L, p.synth.SelectWaveform(op, w))
	p.push(L, op)
	return 1
}

func (p *luaPatch) waveform(L *lua.LState) int {
	op := p.check(L, 1)
	p.raise(L, p.synth.SelectWaveform(op, p.checkWaveform(L, 2)))
	return 0
}

// fm.envelope(op, {attack = {level, ms}, decay_break = ..., decay = ...,
// sustain = ..., release = ...}). Missing stages keep the identity values.
func (p *luaPatch) envelope(L *lua.LState) int {
	op := p.check(L, 1)
	tbl := L.CheckTable(2)
	levels := fmsynth.EnvelopeLevels{
		Attack:     fmsynth.EnvelopeStage{Level: 1},
		DecayBreak: fmsynth.EnvelopeStage{Level: 1},
		Decay:      fmsynth.EnvelopeStage{Level: 1},
		Sustain:    fmsynth.EnvelopeStage{Level: 1},
	}
	stages := []struct {
		key   string
		stage *fmsynth.EnvelopeStage
	}{
		{"attack", &levels.Attack},
		{"decay_break", &levels.DecayBreak},
		{"decay", &levels.Decay},
		{"sustain", &levels.Sustain},
		{"release", &levels.Release},
	}
	for _, st := range stages {
		v := tbl.RawGetString(st.key)
		if v == lua.LNil {
			continue
		}
		pair, ok := v.(*lua.LTable)
		if !ok {
			L.ArgError(2, st.key+" must be {level, ms}")
		}
		level, ok1 := pair.RawGetInt(1).(lua.LNumber)
		ms, ok2 := pair.RawGetInt(2).(lua.LNumber)
		if !ok1 || !ok2 {
			L.ArgError(2, st.key+" must be {level, ms}")
		}
		*st.stage = fmsynth.EnvelopeStage{Level: float32(level), PeriodMs: int(ms)}
	}
	p.raise(L, p.synth.SetEnvelope(op, levels))
	return 0
}

func (p *luaPatch) ratio(L *lua.LState) int {
	op := p.check(L, 1)
	p.raise(L, p.synth.SetFrequencyRatio(op, float64(L.CheckNumber(2))))
	return 0
}

// fm.feedback(op, src, depth)
func (p *luaPatch) feedback(L *lua.LState) int {
	op := p.check(L, 1)
	src := p.check(L, 2)
	p.raise(L, p.synth.BindFeedback(op, src, float32(L.CheckNumber(3))))
	return 0
}

func (p *luaPatch) unfeed(L *lua.LState) int {
	p.raise(L, p.synth.UnbindFeedback(p.check(L, 1)))
	return 0
}

func (p *luaPatch) cascade(L *lua.LState) int {
	p.raise(L, p.synth.Cascade(p.check(L, 1), p.check(L, 2)))
	return 0
}

func (p *luaPatch) parallel(L *lua.LState) int {
	p.raise(L, p.synth.ParallelCombine(p.check(L, 1), p.check(L, 2)))
	return 0
}

// fm.waveforms() lists the waveform names scripts may use.
func (p *luaPatch) waveforms(L *lua.LState) int {
	tbl := L.NewTable()
	for _, w := range []fmsynth.Waveform{fmsynth.WaveNone, fmsynth.WaveSine, fmsynth.WaveTriangle, fmsynth.WaveSawtooth, fmsynth.WaveSquare} {
		tbl.Append(lua.LString(w.String()))
	}
	L.Push(tbl)
	return 1
}
