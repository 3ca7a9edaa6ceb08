// sample_dump.go - Text dump of a rendered block

package main

import (
	"bufio"
	"fmt"
	"io"
)

// writeSampleDump prints one frame per line, channels side by side.
func writeSampleDump(w io.Writer, samples []int16, channels int, eol string) error {
	if channels < 1 {
		return fmt.Errorf("sample dump: invalid channel count %d", channels)
	}
	bw := bufio.NewWriter(w)
	frames := len(samples) / channels
	fmt.Fprintf(bw, "-- sample dump: %d frames x %d channels --%s", frames, channels, eol)
	for f := 0; f < frames; f++ {
		fmt.Fprintf(bw, "%5d:", f)
		for c := 0; c < channels; c++ {
			fmt.Fprintf(bw, " %6d", samples[f*channels+c])
		}
		bw.WriteString(eol)
	}
	return bw.Flush()
}
