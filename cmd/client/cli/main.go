package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/buildinfo"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/cli"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/client/config"
	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	// A trailing URL argument simulates a cold start via deep link.
	if args := os.Args[1:]; len(args) > 0 {
		if last := args[len(args)-1]; strings.HasPrefix(last, "pocketpricer://") {
			app.HandleLaunchURL(ctx, last)
		}
	}

	app.Run(ctx)

}
