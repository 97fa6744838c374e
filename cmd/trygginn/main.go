package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/trygginn/trygginn/internal/api"
	"github.com/trygginn/trygginn/internal/cli"
	"github.com/trygginn/trygginn/internal/config"
	"github.com/trygginn/trygginn/internal/db"
	"github.com/trygginn/trygginn/internal/prefs"
	"github.com/trygginn/trygginn/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store, err := prefs.Open(ctx, repository.NewSQLitePreferenceRepo(database), lipgloss.HasDarkBackground)
	if err != nil {
		return err
	}

	var observer api.Observer = api.NoopObserver{}
	if cfg.LogCalls {
		observer = api.NewSlogObserver(logger)
	}

	app := &cli.App{
		Config:      cfg,
		API:         api.New(cfg, observer),
		Prefs:       store,
		Logger:      logger,
		Now:         time.Now,
		SystemDark:  lipgloss.HasDarkBackground,
		Stdin:       os.Stdin,
		Interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

// openLog appends to path. When the file cannot be opened the client
// still runs, without a log.
func openLog(path string) (io.Writer, func()) {
	if path == "" {
		return io.Discard, func() {}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}
