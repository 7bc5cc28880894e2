package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"ipcrypt-go/pkg/ipcrypt"
)

type Config struct {
	ListenAddr string `mapstructure:"listen_address"`
	Key        string `mapstructure:"key"`      // hex or base64, 16 bytes
	KeyFile    string `mapstructure:"key_file"` // file holding the key, raw or textual
	Passphrase string `mapstructure:"passphrase"`
	LogDB      string `mapstructure:"log_db"`
	ConfigFile string `mapstructure:"config_file"`
}

func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":7787",
		LogDB:      "ipcrypt.db",
		ConfigFile: "ipcrypt",
	}
}

// LoadConfig loads configuration from file and environment, in that order
// of precedence. CLI flag overrides are applied by the caller afterwards.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName(cfg.ConfigFile)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/ipcrypt-go/")
	viper.AddConfigPath("$HOME/.ipcrypt-go")
	viper.SetEnvPrefix("IPCRYPT") // IPCRYPT_LISTEN_ADDRESS etc.
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file is fine; env and flags may carry everything.
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveKey turns the configured key material into a cipher key. Exactly
// one of key, key_file or passphrase must be set.
func (c *Config) ResolveKey() (ipcrypt.Key, error) {
	set := 0
	for _, s := range []string{c.Key, c.KeyFile, c.Passphrase} {
		if s != "" {
			set++
		}
	}
	if set == 0 {
		return ipcrypt.Key{}, fmt.Errorf("no key configured: set key, key_file or passphrase")
	}
	if set > 1 {
		return ipcrypt.Key{}, fmt.Errorf("ambiguous key configuration: set only one of key, key_file, passphrase")
	}

	switch {
	case c.Key != "":
		return ipcrypt.ParseKey(c.Key)
	case c.Passphrase != "":
		return ipcrypt.KeyFromPassphrase(c.Passphrase), nil
	default:
		b, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return ipcrypt.Key{}, fmt.Errorf("failed to read key file: %w", err)
		}
		if len(b) == ipcrypt.KeySize {
			return ipcrypt.NewKey(b)
		}
		return ipcrypt.ParseKey(strings.TrimSpace(string(b)))
	}
}
