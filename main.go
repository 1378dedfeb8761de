package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	pop "github.com/maroda/songid/cmd"
)

func main() {
	term := os.Args[1:]
	if len(term) < 2 {
		fmt.Fprintf(os.Stderr, "usage: songid <%s> <query>\n", strings.Join(pop.Names(), "|"))
		os.Exit(2)
	}
	name, query := term[0], term[1]

	cfg, err := pop.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger.With(slog.String("run", runID)))

	ctx := context.Background()
	tp, err := pop.InitOTel(ctx)
	if err != nil {
		slog.Error("Failed to init TraceProvider, continuing...", slog.Any("error", err))
	}

	ctx, span := tp.Tracer("songid").Start(ctx, "songid")
	span.SetAttributes(attribute.String("songid.run", runID), attribute.String("songid.command", name))

	err = pop.Dispatch(ctx, pop.NewEnv(cfg), name, query, os.Stdout)
	span.End()
	// os.Exit skips defers.
	if serr := tp.Shutdown(context.Background()); serr != nil {
		slog.Warn("Failed to flush traces", slog.Any("error", serr))
	}
	if err != nil {
		slog.Error("command failed", slog.String("command", name), slog.Any("error", err))
		os.Exit(1)
	}

	// Fixed on purpose: the parent process checks that this exact status comes through.
	os.Exit(pop.DiagnosticExitCode)
}
