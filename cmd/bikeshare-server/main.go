package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Jtofah/pdsnd-github/internal/app"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/pkg/contracts"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML config file (defaults to bikeshare.yaml or configs/bikeshare.yaml)")
	port := flag.Int("port", 0, "listen port (overrides server.port)")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, logger, err := app.Setup(*configFile)
	if err != nil {
		slog.Error("Failed to start", "error", err)
		os.Exit(1)
	}

	if *port != 0 {
		cfg.Server.Port = *port
	}

	application, err := app.NewServer(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}

	infrastructure.CloseLogFile()
}
