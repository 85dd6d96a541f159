package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rsalpha/internal/alphabet"
	"rsalpha/internal/cipher"
	"rsalpha/internal/config"
	"rsalpha/internal/ctxlog"
	"rsalpha/internal/journal"
	"rsalpha/internal/keys"
	"rsalpha/internal/rec"
)

const (
	typeEncrypt = "encrypt"
	typeDecrypt = "decrypt"
)

var errUsage = errors.New("usage")

type options struct {
	typ      string
	message  string
	alphabet string
	config   string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("rsalpha", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.typ, "type", "", "type of usage: encrypt or decrypt")
	fs.StringVar(&o.message, "message_file_name", "", "message file to encrypt or decrypt")
	fs.StringVar(&o.alphabet, "alphabet_file_name", "", "alphabet file (JSON or YAML)")
	fs.StringVar(&o.config, "config", "", "optional YAML config file")

	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.typ != typeEncrypt && o.typ != typeDecrypt {
		fmt.Fprintln(stderr, "Wrong type of usage!")
		fmt.Fprintln(stderr, "Type of usage can be <encrypt> or <decrypt>")
		return o, errUsage
	}
	if o.message == "" || o.alphabet == "" {
		fmt.Fprintln(stderr, "Both --message_file_name and --alphabet_file_name are required.")
		fs.Usage()
		return o, errUsage
	}
	return o, nil
}

func run(ctx context.Context, c config.Config, o options, stdout io.Writer) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	pair, err := keys.Generate(c.Cipher)
	if err != nil {
		return fmt.Errorf("keys: %w", err)
	}

	alpha, err := alphabet.LoadFile(o.alphabet)
	if err != nil {
		return fmt.Errorf("alphabet: %w", err)
	}
	if err := pair.Public.CheckBase(alpha.Base()); err != nil {
		return fmt.Errorf("alphabet: %w", err)
	}

	logger.Info("keys generated", "public", pair.Public.String(), "modulus", pair.Public.Modulus, "base", alpha.Base())
	fmt.Fprintln(stdout, pair.Public, pair.Private)

	msg, err := os.ReadFile(o.message)
	if err != nil {
		return fmt.Errorf("read message: %w", err)
	}
	text := strings.TrimRight(string(msg), "\r\n")

	engine := cipher.New(alpha, c.Workers)

	var out string
	switch o.typ {
	case typeEncrypt:
		out, err = engine.Encode(ctx, text, pair.Public)
	case typeDecrypt:
		out, err = engine.Decode(ctx, text, pair.Private)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", o.typ, err)
	}

	fmt.Fprintln(stdout, out)

	if c.Journal.File == "" {
		return nil
	}

	journal.Open(c.Journal)
	defer ctxlog.Close(ctx, "journal", journal.Closer())

	seq, err := journal.Append(journal.NewEntry(o.typ, alpha.Base(), text, out, time.Now()))
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	logger.Info("run journaled", "seq", seq)

	return nil
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	c, err := config.Load(ctx, o.config)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	ctx = ctxlog.Setup(ctx, "rsalpha", c.LogDir, c.LogLevel())
	logger := ctxlog.Get(ctx)

	err = run(ctx, c, o, stdout)
	if err != nil {
		logger.Error("run failed", "error", err)
		return 1
	}
	return 0
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := cli(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
