package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rsalpha/internal/config"
	"rsalpha/internal/ctxlog"
	"rsalpha/internal/journal"
	"rsalpha/internal/rec"
)

func run(ctx context.Context, conf string) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	c, err := config.Load(ctx, conf)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Journal.File == "" {
		return fmt.Errorf("config: journal.file is not set")
	}

	logger.Info("opening journal", "file", c.Journal.File)
	journal.Open(c.Journal)
	defer ctxlog.Close(ctx, "journal", journal.Closer())

	for seq, e := range journal.All() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Printf("%d\t%s\t%s\tbase=%d\t%d->%d\t%.12s\t%s\n",
			seq, e.Time.Format(time.RFC3339), e.Op, e.Base,
			e.InputSymbols, e.OutputSymbols, e.InputDigest, e.Output)
	}

	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ctx = ctxlog.Setup(ctx, "history", "", config.Default().LogLevel())

	logger := ctxlog.Get(ctx)

	conf := "config.yaml"
	if len(os.Args) > 1 {
		conf = os.Args[1]
	}

	err := run(ctx, conf)
	if err != nil {
		logger.Error("stopped unexpectedly", "error", err)
	}
}
