package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/otp-dispatch/internal/application/dispatch"
	"github.com/otp-dispatch/internal/config"
	"github.com/otp-dispatch/internal/domain"
	"github.com/otp-dispatch/internal/infrastructure/sns"
	"github.com/otp-dispatch/internal/infrastructure/whatsapp"
	"github.com/otp-dispatch/internal/pkg/otp"
	"github.com/otp-dispatch/internal/transport/console"
)

// Exit codes.
const (
	exitDelivered = 0
	exitFailed    = 1
	exitConfig    = 2
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	slog.SetDefault(newLogger(cfg, stderr))
	printer := console.NewPrinter(stdout, !color.NoColor)

	if err := cfg.Validate(); err != nil {
		printer.Error(err)
		return exitConfig
	}

	sender, err := newSender(ctx, cfg)
	if err != nil {
		printer.Error(err)
		return exitConfig
	}

	svc := dispatch.NewService(sender, otp.Generate)
	out, err := svc.Dispatch(ctx, dispatch.Input{
		Recipient:    cfg.Recipient,
		TemplateName: cfg.TemplateName,
		LanguageCode: cfg.LanguageCode,
		OnGenerated:  printer.Generated,
	})
	if err != nil {
		printer.Error(err)
		if errors.Is(err, domain.ErrBadRequest) {
			return exitConfig
		}
		return exitFailed
	}

	printer.Outcome(out)
	if !out.Delivered() {
		return exitFailed
	}
	return exitDelivered
}

func newSender(ctx context.Context, cfg *config.Config) (dispatch.Sender, error) {
	if cfg.Channel == config.ChannelSMS {
		return sns.NewSender(ctx, cfg)
	}
	return whatsapp.NewClient(cfg), nil
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
