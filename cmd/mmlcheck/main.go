package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/intuitionamiga/IntuitionFM/mml"
	"golang.org/x/sync/errgroup"
)

type fileReport struct {
	out     bytes.Buffer
	summary Summary
	err     error
}

func checkFile(path string, score bool, sampleRate, tempo int, quiet bool) *fileReport {
	rep := &fileReport{}
	data, err := os.ReadFile(path)
	if err != nil {
		rep.err = err
		return rep
	}

	parts := []mml.Part{{Source: string(data)}}
	if score {
		sc, err := mml.ReadScore(bytes.NewReader(data))
		if err != nil {
			rep.err = fmt.Errorf("%s: %w", path, err)
			return rep
		}
		parts = sc.Parts()
	}

	l := NewLister(&rep.out, sampleRate, tempo)
	l.quiet = quiet
	for _, part := range parts {
		sum, err := l.ListPart(path, part)
		rep.summary.Events += sum.Events
		rep.summary.Notes += sum.Notes
		rep.summary.Samples = max(rep.summary.Samples, sum.Samples)
		if err != nil {
			rep.err = err
			return rep
		}
	}
	return rep
}

func main() {
	sampleRate := flag.Int("fs", mml.DefaultSampleRate, "Sample rate used for lengths")
	tempo := flag.Int("tempo", mml.DefaultTempo, "Initial tempo in BPM")
	score := flag.Bool("score", false, "Inputs are R:/L: score files")
	quiet := flag.Bool("q", false, "Only print a summary per file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: mmlcheck [options] file...\n\nParses MML and lists every event with its start time.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mmlcheck melody.mml\n")
		fmt.Fprintf(os.Stderr, "  mmlcheck -score -q -fs 44100 song.txt\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *sampleRate <= 0 || *tempo <= 0 {
		fmt.Fprintf(os.Stderr, "error: -fs and -tempo must be positive\n")
		os.Exit(1)
	}

	reports := make([]*fileReport, flag.NArg())
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range flag.Args() {
		i, path := i, path
		g.Go(func() error {
			reports[i] = checkFile(path, *score, *sampleRate, *tempo, *quiet)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for i, rep := range reports {
		path := flag.Arg(i)
		if flag.NArg() > 1 && !*quiet {
			fmt.Printf("== %s\n", path)
		}
		os.Stdout.Write(rep.out.Bytes())
		if rep.err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", rep.err)
			failed++
			continue
		}
		s := rep.summary
		fmt.Printf("%s: %d events, %d notes, %d samples (%.3fs)\n",
			path, s.Events, s.Notes, s.Samples, float64(s.Samples)/float64(*sampleRate))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
