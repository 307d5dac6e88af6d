// Package app wires configuration, logging, telemetry and the dataset loader
// into an Application shared by the terminal tool and the HTTP server, and
// manages the server lifecycle.
//
// # Initialization Flow
//
//  1. Setup loads configuration and initializes the global logger
//  2. New resolves paths, starts OpenTelemetry and builds the loader
//  3. NewServer adds the stats service, router and http.Server
//  4. Run serves until interrupted and shuts down gracefully
//
// # Usage
//
//	cfg, logger, err := app.Setup("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a, err := app.NewServer(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := a.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package app
