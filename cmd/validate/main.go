// Command validate performs end-to-end integrity checks on a decoded sounding
// file against the bulletin stream it was produced from. It re-decodes the
// bulletins with a fixed clock, then verifies line layout, byte-for-byte
// decode parity, per-tag count reconciliation, and physical value ranges.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -bulletins data/mock/bulletins.txt \
//	  -hsa data/mock/soundings.hsa \
//	  -mission-date 20240618
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/recon-obs-decoder/internal/adapter/stream"
	"github.com/couchcryptid/recon-obs-decoder/internal/decoder"
	"github.com/couchcryptid/recon-obs-decoder/internal/domain"
	"github.com/couchcryptid/recon-obs-decoder/internal/observability"
	"github.com/jonboulle/clockwork"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	bulletins := flag.String("bulletins", "", "path to the raw bulletin stream")
	hsaPath := flag.String("hsa", "", "path to the decoded fixed-column sounding file")
	missionDate := flag.Int("mission-date", 0, "YYYYMMDD mission date the file was decoded with")
	flag.Parse()

	if *bulletins == "" || *hsaPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*bulletins, *hsaPath, *missionDate); code != 0 {
		os.Exit(code)
	}
}

func run(bulletinPath, hsaPath string, missionDate int) int {
	// Freeze the clock so a zero mission date resolves the same way it did
	// when the file was produced by genmock-driven runs.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.June, 18, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	fmt.Println("=== Sounding File Integrity Validation ===")
	fmt.Println()

	fileLines, err := loadLines(hsaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load sounding file: %v\n", err)
		return 1
	}

	decodedLines, messages, err := redecode(bulletinPath, missionDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: re-decode bulletins: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateLayout(fileLines),
		validateDecodeParity(fileLines, decodedLines),
		validateTagCounts(fileLines, decodedLines),
		validateRanges(fileLines),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d in file, %d re-decoded from %d messages\n",
		len(fileLines), len(decodedLines), messages)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines, nil
}

// redecode runs the bulletin file through the framer and decoder and renders
// each record the way the writer does, returning the lines and the number of
// framed messages.
func redecode(path string, missionDate int) ([]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	log := observability.NewLoggerTo(io.Discard, "error", "text")
	reader := stream.NewReader(f)
	dec := decoder.New(log, missionDate, 0)

	var lines []string
	messages := 0
	for {
		bulletin, err := reader.Extract(context.Background())
		if errors.Is(err, io.EOF) {
			return lines, messages, nil
		}
		if err != nil {
			return nil, 0, err
		}
		messages++
		records, err := dec.Decode(bulletin.Lines)
		if err != nil && records == nil {
			return nil, 0, fmt.Errorf("message %d: %w", bulletin.Ordinal, err)
		}
		for _, r := range records {
			lines = append(lines, domain.FormatHSA(r))
		}
	}
}

// ── Phase 1: Column Layout ──
// Every line must match the fixed-column format downstream parsers slice by
// byte offset: 11 fields, known 4-character tag, numeric columns parseable.

var validTags = map[string]bool{
	string(domain.TagMandatory): true, string(domain.TagSignificant): true,
	string(domain.TagAdditional): true, string(domain.TagRecco): true,
	string(domain.TagSupplVortex): true, string(domain.TagMaxWind): true,
	string(domain.TagTropopause): true, string(domain.TagDeepLayer): true,
	string(domain.TagShear): true,
}

func validateLayout(lines []string) *phase {
	p := &phase{name: "Phase 1: Column Layout"}
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 11 {
			p.errorf("line %d: %d fields, want 11", i+1, len(fields))
			continue
		}
		tag := fields[10]
		if len(tag) != 4 {
			p.errorf("line %d: tag %q is not 4 characters", i+1, tag)
		} else if !validTags[tag] {
			p.errorf("line %d: unknown tag %q", i+1, tag)
		}
		if _, err := strconv.Atoi(fields[1]); err != nil || len(fields[1]) != 4 {
			p.errorf("line %d: time field %q is not HHMM", i+1, fields[1])
		}
		for j := 0; j < 10; j++ {
			if _, err := strconv.ParseFloat(fields[j], 64); err != nil {
				p.errorf("line %d: field %d %q is not numeric", i+1, j+1, fields[j])
			}
		}
	}
	return p
}

// ── Phase 2: Decode Parity ──
// The file must be byte-identical to a fresh decode of its bulletins.

func validateDecodeParity(file, decoded []string) *phase {
	p := &phase{name: "Phase 2: Decode Parity"}
	n := len(file)
	if len(decoded) < n {
		n = len(decoded)
	}
	if len(file) != len(decoded) {
		p.errorf("line count: file has %d, re-decode produced %d", len(file), len(decoded))
	}
	for i := 0; i < n; i++ {
		if file[i] != decoded[i] {
			p.errorf("line %d:\n      file:   %q\n      decode: %q", i+1, file[i], decoded[i])
		}
	}
	return p
}

// ── Phase 3: Tag Counts ──
// Per-tag totals must reconcile between the file and the fresh decode, and a
// release that emits a WSHR summary must also carry its source levels.

func tagCounts(lines []string) map[string]int {
	counts := map[string]int{}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 11 {
			counts[fields[10]]++
		}
	}
	return counts
}

func validateTagCounts(file, decoded []string) *phase {
	p := &phase{name: "Phase 3: Tag Counts"}
	fc, dc := tagCounts(file), tagCounts(decoded)
	for tag := range validTags {
		if fc[tag] != dc[tag] {
			p.errorf("%s count: file has %d, re-decode produced %d", tag, fc[tag], dc[tag])
		}
	}
	if fc[string(domain.TagShear)] > 0 && fc[string(domain.TagMandatory)] == 0 {
		p.errorf("WSHR present without any MANL source levels")
	}
	return p
}

// ── Phase 4: Physical Ranges ──
// Values must be the missing sentinel or physically plausible.

func validateRanges(lines []string) *phase {
	p := &phase{name: "Phase 4: Physical Ranges"}
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 11 {
			continue // reported by phase 1
		}
		checkRange(p, i, "lat", fields[2], -90, 90)
		checkRange(p, i, "lon", fields[3], -180, 180)
		checkRange(p, i, "pressure", fields[4], 1, domain.SurfacePressureFlag)
		checkRange(p, i, "temperature", fields[5], -100, 60)
		checkRange(p, i, "humidity", fields[6], 0, 100)
	}
	return p
}

func checkRange(p *phase, i int, name, raw string, lo, hi float64) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return // reported by phase 1
	}
	if v == domain.Missing {
		return
	}
	if v < lo || v > hi {
		p.errorf("line %d: %s %g outside [%g, %g]", i+1, name, v, lo, hi)
	}
}
