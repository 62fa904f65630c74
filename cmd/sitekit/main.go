package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eringen/sitekit"
	"github.com/eringen/sitekit/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "import":
		dir := ""
		if len(os.Args) > 2 {
			dir = os.Args[2]
		}
		err = runImport(dir)
	case "version":
		fmt.Printf("sitekit %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (sitekit.SiteConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, using environment")
	}
	return sitekit.LoadConfig()
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := sitekit.New(cfg, views.Default())
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Prepare(ctx); err != nil {
		if ctx.Err() != nil {
			log.Println("interrupted during startup")
			return nil
		}
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- app.Serve() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errc
}

func runImport(dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dir == "" {
		dir = cfg.ContentDir
	}
	if dir == "" {
		return errors.New("usage: sitekit import <dir>")
	}
	langs, err := sitekit.NewLanguages(cfg.Languages, cfg.DefaultLanguage)
	if err != nil {
		return err
	}
	store, err := sitekit.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	res, err := sitekit.NewImporter(store, nil, langs).ImportDir(ctx, dir)
	if err != nil {
		return err
	}
	published, err := store.ListLanguages(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d posts from %s (%d files skipped)\n", res.Imported, dir, res.Skipped)
	for _, path := range res.Unsupported {
		fmt.Printf("  skipped %s: language not in SITE_LANGUAGES\n", path)
	}
	if len(published) > 0 {
		fmt.Printf("published languages: %s\n", strings.Join(published, ", "))
	}
	return nil
}

func printUsage() {
	fmt.Println(`sitekit - A marketing and content site built with Go, Echo, and templ

Usage:
  sitekit <command> [arguments]

Commands:
  serve         Start the web server
  import <dir>  Import Markdown posts from <dir>/blog/<lang>/*.md
  version       Print the sitekit version
  help          Show this help message

Configuration is read from the environment and an optional .env file.
See SITE_*, ADMIN_PASSWORD, SESSION_SECRET and CONTENT_DIR.`)
}
