// Command decode reads a stream of reconnaissance bulletins (TEMPDROP,
// RECCO, VORTEX supplementary) and writes fixed-column sounding records.
//
// Usage:
//
//	decode [-in bulletins.txt] [-out records.hsa]
//
// With no flags it reads stdin and writes stdout. Configuration comes from
// the environment: LOG_LEVEL, LOG_FORMAT, MISSION_DATE, MAX_LEVELS.
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/recon-obs-decoder/internal/adapter/stream"
	"github.com/couchcryptid/recon-obs-decoder/internal/config"
	"github.com/couchcryptid/recon-obs-decoder/internal/decoder"
	"github.com/couchcryptid/recon-obs-decoder/internal/observability"
	"github.com/couchcryptid/recon-obs-decoder/internal/pipeline"
)

func main() {
	inPath := flag.String("in", "", "bulletin input file (default stdin)")
	outPath := flag.String("out", "", "record output file (default stdout)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var in io.Reader = os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			logger.Error("open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	reader := stream.NewReader(in)
	writer := stream.NewWriter(out)
	transformer := pipeline.NewTransformer(decoder.New(logger, cfg.MissionDate, cfg.MaxLevels))

	p := pipeline.New(reader, transformer, writer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.Run(ctx)
	if err := writer.Flush(); err != nil {
		logger.Error("flush output", "error", err)
		os.Exit(1)
	}
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
		os.Exit(1)
	}

	messages, records := p.Counts()
	logger.Info("decode complete", "messages", messages, "records", records)
}
