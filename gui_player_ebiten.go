//go:build !headless

// gui_player_ebiten.go - Windowed keyboard player

package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/intuitionamiga/IntuitionFM/fmsynth"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	guiWidth  = 640
	guiHeight = 240
	guiScopeY = 140
)

var guiNoteKeys = []struct {
	key  ebiten.Key
	char byte
}{
	{ebiten.KeyA, 'a'}, {ebiten.KeyB, 'b'}, {ebiten.KeyC, 'c'}, {ebiten.KeyD, 'd'},
	{ebiten.KeyE, 'e'}, {ebiten.KeyF, 'f'}, {ebiten.KeyG, 'g'},
}

type guiPlayer struct {
	stream *synthStream
	player *audio.Player
	out    io.Writer

	scope      []int16
	status     string
	dumpWanted bool

	clipboardOnce sync.Once
	clipboardOK   bool
}

// runGUIPlayer opens the window and blocks until it is closed.
func runGUIPlayer(s *fmsynth.Synth, snd *fmsynth.Sound, out io.Writer) error {
	stream := newSynthStream(s, snd)
	ctx := audio.NewContext(s.SampleRate())
	player, err := ctx.NewPlayer(stream)
	if err != nil {
		return fmt.Errorf("audio player: %w", err)
	}
	player.SetBufferSize(40 * time.Millisecond)
	player.Play()
	defer player.Close()

	gp := &guiPlayer{stream: stream, player: player, out: out, status: defaultKeys}
	ebiten.SetWindowSize(guiWidth, guiHeight)
	ebiten.SetWindowTitle("IntuitionFM")
	if err := ebiten.RunGame(gp); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (gp *guiPlayer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	for _, k := range guiNoteKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			if idx, ok := noteForKey(k.char); ok {
				gp.stream.playNote(idx)
			}
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		gp.stream.armDump()
		gp.dumpWanted = true
	}
	if gp.dumpWanted {
		if block, ok := gp.stream.takeDump(); ok {
			gp.dumpWanted = false
			gp.publishDump(block)
		}
	}
	gp.scope = gp.stream.scopeSnapshot(gp.scope)
	return nil
}

// publishDump prints a dumped block and puts the same text on the clipboard.
func (gp *guiPlayer) publishDump(block []int16) {
	var sb strings.Builder
	if err := writeSampleDump(&sb, block, streamChannels, "\n"); err != nil {
		gp.status = "dump failed: " + err.Error()
		return
	}
	fmt.Fprint(gp.out, sb.String())

	gp.clipboardOnce.Do(func() {
		gp.clipboardOK = clipboard.Init() == nil
	})
	if gp.clipboardOK {
		clipboard.Write(clipboard.FmtText, []byte(sb.String()))
		gp.status = fmt.Sprintf("dumped %d frames to stdout and clipboard", len(block)/streamChannels)
	} else {
		gp.status = fmt.Sprintf("dumped %d frames to stdout", len(block)/streamChannels)
	}
}

func (gp *guiPlayer) Draw(screen *ebiten.Image) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	noteColor := color.RGBA{0, 220, 90, 255}

	note := "--"
	if idx := gp.stream.currentNote(); idx != noNote {
		note = noteName(idx)
	}
	text.Draw(screen, "Note: "+note, face, 12, 24, noteColor)
	text.Draw(screen, gp.status, face, 12, 44, labelColor)

	ebitenutil.DrawRect(screen, 0, guiScopeY-64, guiWidth, 128, color.RGBA{20, 20, 30, 255})
	gp.drawScope(screen)
}

// drawScope plots the left channel of the last block across the window.
func (gp *guiPlayer) drawScope(screen *ebiten.Image) {
	frames := len(gp.scope) / streamChannels
	if frames < 2 {
		return
	}
	lineColor := color.RGBA{90, 200, 255, 255}
	step := float32(guiWidth) / float32(frames-1)
	y := func(i int) float32 {
		return guiScopeY - float32(gp.scope[i*streamChannels])/32768*60
	}
	for i := 1; i < frames; i++ {
		vector.StrokeLine(screen, step*float32(i-1), y(i-1), step*float32(i), y(i), 1, lineColor, false)
	}
}

func (gp *guiPlayer) Layout(_, _ int) (int, int) {
	return guiWidth, guiHeight
}
