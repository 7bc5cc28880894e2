package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"ipcrypt-go/pkg/log"
	"ipcrypt-go/pkg/service"
)

var serveCommand = &cli.Command{
	Name:        "serve",
	Usage:       "start the HTTP anonymization service",
	UsageText:   "ipcrypt serve [options]",
	Description: `Starts an HTTP API exposing /v1/encrypt, /v1/decrypt and /v1/anonymize. Configuration comes from ipcrypt.yaml, IPCRYPT_* environment variables and the flags below, in increasing order of precedence.`,
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "listen `ADDRESS` (host:port)",
		},
		&cli.StringFlag{
			Name:  "log-db",
			Usage: "SQLite log database `FILE` under the application directory",
		},
	}, keyFlags...),
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	cfg, err := service.LoadConfig()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to load configuration: %v", err), 1)
	}

	// Flag overrides beat file and environment.
	if v := c.String("listen"); v != "" {
		cfg.ListenAddr = v
	}
	if v := c.String("log-db"); v != "" {
		cfg.LogDB = v
	}
	if v := c.String("key"); v != "" {
		cfg.Key = v
	}
	if v := c.String("key-file"); v != "" {
		cfg.KeyFile = v
	}
	if v := c.String("passphrase"); v != "" {
		cfg.Passphrase = v
	}

	key, err := cfg.ResolveKey()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error resolving key: %v", err), 1)
	}

	if err := log.Init(cfg.LogDB); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to initialize logger: %v", err), 1)
	}
	defer log.Close()

	svc, err := service.New(key)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to create service: %v", err), 1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %s, shutting down gracefully...", sig)
		log.Close()
		os.Exit(0)
	}()

	log.Printf("starting ipcrypt service %s (built %s)", Version, BuildTime)
	if err := svc.Run(cfg.ListenAddr); err != nil {
		return cli.Exit(fmt.Sprintf("Service failed: %v", err), 1)
	}
	return nil
}
