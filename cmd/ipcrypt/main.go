package main

import (
	stdlog "log"
	"os"

	"github.com/urfave/cli/v2"

	"ipcrypt-go/pkg/ipcrypt"
	"ipcrypt-go/pkg/service"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "ipcrypt",
		Usage:   "format-preserving IPv4 address encryption (ipcrypt)",
		Version: Version,
		Commands: []*cli.Command{
			encryptCommand,
			decryptCommand,
			anonymizeCommand,
			serveCommand,
			benchCommand,
			logsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		stdlog.Fatal(err)
	}
}

// keyFlags are shared by every subcommand that needs cipher key material.
var keyFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "16-byte key as 32 hex chars or base64 `KEY`",
	},
	&cli.StringFlag{
		Name:  "key-file",
		Usage: "`PATH` to a file holding the key (raw 16 bytes or textual)",
	},
	&cli.StringFlag{
		Name:    "passphrase",
		Aliases: []string{"p"},
		Usage:   "derive the key from `PASSPHRASE` (SHA-256, first 16 bytes)",
	},
}

// keyFromFlags resolves the cipher key from the common key flags.
func keyFromFlags(c *cli.Context) (ipcrypt.Key, error) {
	cfg := &service.Config{
		Key:        c.String("key"),
		KeyFile:    c.String("key-file"),
		Passphrase: c.String("passphrase"),
	}
	return cfg.ResolveKey()
}
