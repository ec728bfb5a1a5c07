package config

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
)

// PrivateKeyEnv holds the hex-encoded signing key.
const PrivateKeyEnv = "PRIVATE_KEY"

var ErrMissingPrivateKey = errors.New(PrivateKeyEnv + " environment variable not found")

// Env is what the process environment provides.
type Env struct {
	PrivateKey *ecdsa.PrivateKey
}

// LoadEnv loads envFile into the environment if it exists, without
// overriding variables already set, and parses PRIVATE_KEY.
func LoadEnv(envFile string) (*Env, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}

	raw := strings.TrimSpace(os.Getenv(PrivateKeyEnv))
	if raw == "" {
		return nil, ErrMissingPrivateKey
	}

	key, err := ParsePrivateKey(raw)
	if err != nil {
		return nil, err
	}
	return &Env{PrivateKey: key}, nil
}

// ParsePrivateKey decodes a hex private key, with or without a 0x prefix.
func ParsePrivateKey(s string) (*ecdsa.PrivateKey, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	key, err := crypto.HexToECDSA(s)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", PrivateKeyEnv, err)
	}
	return key, nil
}
