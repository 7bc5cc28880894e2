package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveKeyHex(t *testing.T) {
	cfg := &Config{Key: "736f6d652031362d62797465206b6579"}
	key, err := cfg.ResolveKey()
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	if string(key[:]) != "some 16-byte key" {
		t.Errorf("ResolveKey = %q", key[:])
	}
}

func TestResolveKeyPassphrase(t *testing.T) {
	cfg := &Config{Passphrase: "hunter2"}
	k1, err := cfg.ResolveKey()
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	k2, _ := cfg.ResolveKey()
	if k1 != k2 {
		t.Error("passphrase-derived key is not stable")
	}
}

func TestResolveKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyfile")
	if err := os.WriteFile(path, []byte("some 16-byte key"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{KeyFile: path}
	key, err := cfg.ResolveKey()
	if err != nil {
		t.Fatalf("ResolveKey failed: %v", err)
	}
	if string(key[:]) != "some 16-byte key" {
		t.Errorf("ResolveKey = %q", key[:])
	}
}

func TestResolveKeyValidation(t *testing.T) {
	if _, err := (&Config{}).ResolveKey(); err == nil {
		t.Error("ResolveKey with no key source succeeded")
	}
	cfg := &Config{Key: "abc", Passphrase: "def"}
	if _, err := cfg.ResolveKey(); err == nil {
		t.Error("ResolveKey with two key sources succeeded")
	}
}
