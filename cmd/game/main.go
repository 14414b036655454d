package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/loop/client"
	"github.com/tomz197/starfall/internal/telemetry"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// The terminal belongs to the game, so logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if path := config.GetEnv("STARFALL_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "starfall")

	sink := telemetry.NewSink(logger, telemetry.DefaultInterval)
	defer sink.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Tuning:    config.FromEnv(config.Default()),
		Logger:    logger,
		Telemetry: sink,
		FPS:       config.GetEnvInt("STARFALL_FPS", config.ClientTargetFPS),
	})
	return c.Run()
}
