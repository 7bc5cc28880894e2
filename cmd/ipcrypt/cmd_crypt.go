package main

import (
	"bufio"
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"ipcrypt-go/pkg/ipcrypt"
	"ipcrypt-go/pkg/log"
)

var (
	encryptCommand = &cli.Command{
		Name:        "encrypt",
		Usage:       "encrypt IPv4 addresses",
		UsageText:   "ipcrypt encrypt [options] [address...]",
		Description: `Encrypts each address given as an argument, or each line read from stdin when no arguments are given. Prints one encrypted address per line.`,
		Flags:       keyFlags,
		Action: func(c *cli.Context) error {
			return cryptCmd(c, false)
		},
	}

	decryptCommand = &cli.Command{
		Name:        "decrypt",
		Usage:       "decrypt IPv4 addresses",
		UsageText:   "ipcrypt decrypt [options] [address...]",
		Description: `Decrypts each address given as an argument, or each line read from stdin when no arguments are given. Prints one decrypted address per line.`,
		Flags:       keyFlags,
		Action: func(c *cli.Context) error {
			return cryptCmd(c, true)
		},
	}
)

func cryptCmd(c *cli.Context, decrypt bool) error {
	log.SetStd()

	key, err := keyFromFlags(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error resolving key: %v", err), 1)
	}

	f := ipcrypt.EncryptAddr
	if decrypt {
		f = ipcrypt.DecryptAddr
	}

	mapOne := func(raw string) error {
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", raw, err)
		}
		mapped, err := f(addr, key)
		if err != nil {
			return err
		}
		fmt.Println(mapped)
		return nil
	}

	if c.Args().Len() > 0 {
		for _, arg := range c.Args().Slice() {
			if err := mapOne(arg); err != nil {
				return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
			}
		}
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := mapOne(line); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
	}
	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("Error reading stdin: %v", err), 1)
	}
	return nil
}
