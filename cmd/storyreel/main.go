package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/nkale/storyreel/internal/gen"
	"github.com/nkale/storyreel/internal/tui"
)

func main() {
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logPath := flag.String("log", "", "append structured logs to this file (stderr is owned by the TUI)")
	textModel := flag.String("text-model", "", "override the text model (gemini-2.5-flash)")
	videoModel := flag.String("video-model", "", "override the video model (veo-2.0-generate-001)")
	imageModel := flag.String("image-model", "", "override the image model (gemini-2.5-flash-image-preview)")
	pollInterval := flag.Duration("poll-interval", gen.DefaultPollInterval, "how often to check on running video jobs")
	tickerInterval := flag.Duration("ticker-interval", 3*time.Second, "how often scene loading messages rotate")
	typeSpeed := flag.Duration("type-speed", 30*time.Millisecond, "delay between typewriter characters")
	flag.Parse()

	// Optional; a missing .env is fine.
	_ = godotenv.Load()

	logSink := io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Println("failed to open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logSink = f
	}
	logger := zerolog.New(logSink).With().Timestamp().Logger()

	// Canceled once the program returns, so in-flight jobs (notably video
	// polling loops) stop instead of outliving the UI.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := gen.NewFromEnv(ctx, gen.Config{
		TextModel:  *textModel,
		VideoModel: *videoModel,
		ImageModel: *imageModel,
	})
	if err != nil {
		// The UI still boots; generation actions explain what is missing.
		fmt.Println("generation disabled:", err)
		logger.Warn().Err(err).Msg("starting without a generation client")
	}

	opts := []tea.ProgramOption{}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Client:         client,
			PollInterval:   *pollInterval,
			TickerInterval: *tickerInterval,
			TypeSpeed:      *typeSpeed,
			Logger:         logger,
			Context:        ctx,
		}),
		opts...,
	)

	start := time.Now()
	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
	logger.Info().Dur("session", time.Since(start)).Msg("exited")
}
