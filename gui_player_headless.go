//go:build headless

// gui_player_headless.go - GUI stub for headless builds

package main

import (
	"errors"
	"io"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

func runGUIPlayer(_ *fmsynth.Synth, _ *fmsynth.Sound, _ io.Writer) error {
	return errors.New("GUI player not available in headless builds")
}
