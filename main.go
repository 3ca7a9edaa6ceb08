// main.go - Entry point for the IntuitionFM synthesizer

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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147m ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████\033[0m\n\033[38;2;255;50;147m▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀\033[0m\n\033[38;2;255;80;147m▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███\033[0m\n\033[38;2;255;110;147m░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄\033[0m\n\033[38;2;255;140;147m░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒\033[0m\n\033[38;2;255;170;147m░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░\033[0m\n\033[38;2;255;200;147m ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░\033[0m\n\033[38;2;255;230;147m ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░\033[0m\n\033[38;2;255;255;147m ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░\033[0m")
	fmt.Println("\nFour-operator style FM synthesis with MML playback.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionFM")
	fmt.Println("License: GPLv3 or later")
}

type appOptions struct {
	algorithm  int
	volume     float64
	backend    string
	wavPath    string
	block      int
	sampleRate int
	channels   int
	playMML    bool
	scorePath  string
	patchPath  string
	gui        bool
}

func parseOptions(args []string) (appOptions, error) {
	var opts appOptions

	flagSet := flag.NewFlagSet("intuition_fm", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.IntVar(&opts.algorithm, "m", 0, fmt.Sprintf("Operator algorithm (0-%d)", numAlgorithms-1))
	flagSet.Float64Var(&opts.volume, "v", 1, "Keyboard voice volume")
	flagSet.StringVar(&opts.backend, "audio", defaultAudioBackend, "Audio backend ("+strings.Join(audioBackendNames(), ", ")+")")
	flagSet.StringVar(&opts.wavPath, "o", "", "Write audio to a WAV file instead of a device")
	flagSet.IntVar(&opts.block, "block", 480, "Frames rendered per block")
	flagSet.IntVar(&opts.sampleRate, "rate", fmsynth.DefaultSampleRate, "Sample rate in Hz")
	flagSet.IntVar(&opts.channels, "channels", 2, "Output channels")
	flagSet.BoolVar(&opts.playMML, "mml", false, "Play the two-hand MML score")
	flagSet.StringVar(&opts.scorePath, "score", "", "MML score file with R: and L: lines (implies -mml)")
	flagSet.StringVar(&opts.patchPath, "patch", "", "Lua script building the operator graph (overrides -m)")
	flagSet.BoolVar(&opts.gui, "gui", false, "Open the windowed keyboard player")

	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./intuition_fm [-m 0|1|2] [-patch voice.lua] [-mml [-score file]] [-gui] [-audio backend | -o out.wav]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if flagSet.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", flagSet.Arg(0))
	}
	if opts.scorePath != "" {
		opts.playMML = true
	}

	switch {
	case opts.patchPath == "" && (opts.algorithm < 0 || opts.algorithm >= numAlgorithms):
		return opts, fmt.Errorf("-m must be 0-%d, got %d", numAlgorithms-1, opts.algorithm)
	case opts.block <= 0:
		return opts, fmt.Errorf("-block must be positive, got %d", opts.block)
	case opts.sampleRate <= 0:
		return opts, fmt.Errorf("-rate must be positive, got %d", opts.sampleRate)
	case opts.channels < 1 || opts.channels > 8:
		return opts, fmt.Errorf("-channels must be 1-8, got %d", opts.channels)
	case opts.volume < 0:
		return opts, fmt.Errorf("-v must not be negative, got %g", opts.volume)
	case opts.gui && opts.playMML:
		return opts, errors.New("-gui and -mml are exclusive")
	case opts.gui && opts.wavPath != "":
		return opts, errors.New("-gui plays through its own audio context and cannot write -o")
	case opts.gui && opts.channels != streamChannels:
		return opts, fmt.Errorf("-gui plays %d channels", streamChannels)
	}
	return opts, nil
}

func (opts appOptions) voiceBuilder() voiceBuilder {
	if opts.patchPath != "" {
		path := opts.patchPath
		return func(s *fmsynth.Synth) (fmsynth.Operator, error) { return loadPatch(s, path) }
	}
	mode := opts.algorithm
	return func(s *fmsynth.Synth) (fmsynth.Operator, error) { return buildAlgorithm(s, mode) }
}

func (opts appOptions) openSink() (AudioSink, error) {
	if opts.wavPath != "" {
		return newWAVSink(opts.wavPath, opts.sampleRate, opts.channels)
	}
	return openAudioSink(opts.backend, opts.sampleRate, opts.channels)
}

// newVoiceSound builds one voice and binds it to a fresh sound.
func newVoiceSound(s *fmsynth.Synth, build voiceBuilder, volume float32) (*fmsynth.Sound, error) {
	root, err := build(s)
	if err != nil {
		return nil, err
	}
	snd, err := s.NewSound()
	if err != nil {
		return nil, err
	}
	if err := s.SetSoundOperator(snd, root); err != nil {
		return nil, err
	}
	if err := s.SetSoundVolume(snd, volume); err != nil {
		return nil, err
	}
	return snd, nil
}

func runMML(s *fmsynth.Synth, opts appOptions, sink AudioSink) error {
	score := builtinScore
	if opts.scorePath != "" {
		var err error
		if score, err = loadScoreFile(opts.scorePath); err != nil {
			return err
		}
	}
	mp, err := newMMLPlayer(s, score, opts.voiceBuilder(), sink, os.Stdout, opts.block, opts.channels)
	if err != nil {
		return err
	}
	defer mp.close()
	return mp.run()
}

func runKeyboard(s *fmsynth.Synth, snd *fmsynth.Sound, opts appOptions, sink AudioSink) error {
	host := NewTerminalHost()
	if err := host.Start(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer host.Stop()

	kp := newKeyboardPlayer(s, snd, sink, host, os.Stdout, opts.block, opts.channels)
	kp.eol = "\r\n"
	return kp.run()
}

func main() {
	boilerPlate()

	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	synth, err := fmsynth.NewSynth(fmsynth.Config{SampleRate: opts.sampleRate})
	if err != nil {
		fmt.Printf("Failed to initialize synth: %v\n", err)
		os.Exit(1)
	}

	if opts.gui {
		snd, err := newVoiceSound(synth, opts.voiceBuilder(), float32(opts.volume))
		if err != nil {
			fmt.Printf("Error building voice: %v\n", err)
			os.Exit(1)
		}
		if err := runGUIPlayer(synth, snd, os.Stdout); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sink, err := opts.openSink()
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}

	if opts.playMML {
		err = runMML(synth, opts, sink)
	} else {
		var snd *fmsynth.Sound
		snd, err = newVoiceSound(synth, opts.voiceBuilder(), float32(opts.volume))
		if err == nil {
			err = runKeyboard(synth, snd, opts, sink)
		}
	}
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "intuition_fm: %v\n", err)
		os.Exit(1)
	}
}
