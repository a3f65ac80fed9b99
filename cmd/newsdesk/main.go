// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command newsdesk is the administrative console for the news CMS backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/olegiv/newsdesk/internal/config"
	"github.com/olegiv/newsdesk/internal/version"
)

func usage(w io.Writer) func() {
	return func() {
		_, _ = fmt.Fprintf(w, "newsdesk - news CMS administration console\n\n")
		_, _ = fmt.Fprintf(w, "Usage: newsdesk [options] <command> [arguments]\n\n")
		_, _ = fmt.Fprintf(w, "Commands:\n")
		_, _ = fmt.Fprintf(w, "  login                      Sign in to the backend\n")
		_, _ = fmt.Fprintf(w, "  logout                     Sign out (language and theme are kept)\n")
		_, _ = fmt.Fprintf(w, "  status                     Show session state\n")
		_, _ = fmt.Fprintf(w, "  lang [uz|ru]               Show or set the console language\n")
		_, _ = fmt.Fprintf(w, "  theme [light|dark|toggle]  Show or set the theme\n")
		_, _ = fmt.Fprintf(w, "  articles list|get|create|update|delete\n")
		_, _ = fmt.Fprintf(w, "  categories list|create|update|delete\n")
		_, _ = fmt.Fprintf(w, "  upload <file>              Upload a file and print its URL\n")
		_, _ = fmt.Fprintf(w, "  stats                      Show dashboard statistics\n")
		_, _ = fmt.Fprintf(w, "  events                     Show the local event log\n")
		_, _ = fmt.Fprintf(w, "  mock                       Run the in-memory mock backend\n")
		_, _ = fmt.Fprintf(w, "\nOptions:\n")
		_, _ = fmt.Fprintf(w, "  -v, -version   Show version information\n")
		_, _ = fmt.Fprintf(w, "  -h, -help      Show help information\n")
		_, _ = fmt.Fprintf(w, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(w, "  NEWSDESK_API_BASE_URL   Backend URL (default: %s)\n", config.DefaultAPIBaseURL)
		_, _ = fmt.Fprintf(w, "  NEWSDESK_STATE_PATH     Local state database (default: ./data/newsdesk.db)\n")
		_, _ = fmt.Fprintf(w, "  NEWSDESK_LOG_LEVEL      debug|info|warn|error (default: warn)\n")
		_, _ = fmt.Fprintf(w, "  NEWSDESK_HTTP_TIMEOUT   Request timeout, 0 disables (default: 0)\n")
		_, _ = fmt.Fprintf(w, "  NEWSDESK_RATE_LIMIT     Max requests per second, 0 = unlimited\n")
		_, _ = fmt.Fprintf(w, "  NEWSDESK_REDIS_URL      Redis URL for the category cache (optional)\n")
	}
}

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("newsdesk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = usage(stderr)

	showVersion := fs.Bool("version", false, "Show version information")
	fs.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := fs.Bool("help", false, "Show help information")
	fs.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		_, _ = fmt.Fprintln(stdout, version.Current().String())
		return 0
	}
	if *showHelp || fs.NArg() == 0 {
		fs.Usage()
		if *showHelp {
			return 0
		}
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "newsdesk: %v\n", err)
		return 1
	}

	a, err := newApp(ctx, cfg, stdin, stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "newsdesk: %v\n", err)
		return 1
	}
	defer a.close()

	if err := a.dispatch(ctx, fs.Args()); err != nil {
		a.logger.Debug("command failed", "command", fs.Arg(0), "error", err)
		_, _ = fmt.Fprintln(stderr, a.describeError(err))
		return 1
	}
	return 0
}
