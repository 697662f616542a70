// Command genmock emits a deterministic stream of synthetic reconnaissance
// bulletins covering all three supported formats, for fixtures and manual
// testing of the decoder:
//
//	go run ./cmd/genmock > bulletins.txt
//	go run ./cmd/decode -in bulletins.txt
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// One TEMPDROP release: part A mandatory levels through 200 hPa, a
// tropopause and max-wind group, part B significant levels, the 21212
// significant-wind block, the 31313 release-time group, a 51515 additional
// block, and a 62626 remarks block with splash and deep-layer-mean tokens.
// The day field 68 flags knots (day 18).
var tempdrop = []string{
	"XXAA 68231 99252 70537",
	"99985 25015 10010 00132 24020 08510 85476 20018 07008",
	"70090 12052 06010 50576 11548 35025 40734 22560 33030",
	"30934 33561 31040 25059 43562 30045 20184 48563 30550",
	"88159 51560 29040 77200 30555",
	"XXBB 68231 99252 70537",
	"00985 25015 11972 24519 22843 21018",
	"21212 00985 10010 11950 12015 22700 06010",
	"31313 45208 82302",
	"51515 10190 00128 10191 SFC-0850 MB 10190 85476",
	"62626 SPL 2516N 07434W DLM WND 24012 010-850MB",
	"NNNN",
}

// One RECCO report; the fields wrap onto a second physical line after the
// altitude group to exercise the cross-line cursor.
var recco = []string{
	"97779 1430 1 253 050 2 0857",
	"240 12 24015",
	"NNNN",
}

// One VORTEX supplementary table with a bracketing TIME line.
var vortex = []string{
	"SUPPL",
	"1253050 4 3052 24012 24015",
	"1252048 4 3122 22010 25020",
	"1250046 3 1476 20018 26025",
	"TIME 1012 1047",
	"NNNN",
}

func main() {
	outPath := flag.String("out", "", "output file (default stdout)")
	flag.Parse()

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "genmock: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	blocks := [][]string{tempdrop, recco, vortex}
	for i, block := range blocks {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, strings.Join(block, "\n"))
	}
}
