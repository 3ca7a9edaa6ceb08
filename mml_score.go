// mml_score.go - Built-in score and score files

package main

import (
	"fmt"
	"os"

	"github.com/intuitionamiga/IntuitionFM/mml"
)

// builtinScore is "Twinkle, Twinkle, Little Star" over a half note bass.
var builtinScore = mml.Score{
	Right: "T120 L4 O4 " +
		"CCGG AAG2 FFEE DDC2 " +
		"GGFF EED2 GGFF EED2 " +
		"CCGG AAG2 FFEE DD [CEG]2",
	Left: "T120 L2 O3 " +
		"C E F C F C G C " +
		"E D E G E D E G " +
		"C E F C F C G C",
}

func loadScoreFile(path string) (mml.Score, error) {
	f, err := os.Open(path)
	if err != nil {
		return mml.Score{}, err
	}
	defer f.Close()
	score, err := mml.ReadScore(f)
	if err != nil {
		return mml.Score{}, fmt.Errorf("%s: %w", path, err)
	}
	return score, nil
}
