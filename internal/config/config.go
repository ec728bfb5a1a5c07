package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// MoonbaseChainID is the chain ID of the Moonbase Alpha test network.
const MoonbaseChainID int64 = 1287

// Config file keys.
const (
	KeyRPC       = "rpc"
	KeyPages     = "pages"
	KeyChainID   = "chain_id"
	KeyContracts = "contracts"
	KeyABI       = "abi"
	KeyExtension = "extension"
	KeyMainPage  = "main_page"
	KeyHistory   = "history"
)

// Config is the content of config.toml. Relative paths are resolved
// against the directory holding the file.
type Config struct {
	RPC       string `toml:"rpc"`
	Pages     string `toml:"pages"`
	ChainID   int64  `toml:"chain_id"`
	Contracts string `toml:"contracts"`
	ABI       string `toml:"abi"`
	Extension string `toml:"extension"`
	History   string `toml:"history"`
	MainPage  *int64 `toml:"main_page"`

	// Path is the file the config was loaded from.
	Path string `toml:"-"`
}

// Load reads the config file at path and fills in defaults.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.DecodeFile(abs, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", abs, err)
	}
	cfg.Path = abs

	if cfg.ChainID == 0 {
		cfg.ChainID = MoonbaseChainID
	}
	if cfg.Contracts == "" {
		cfg.Contracts = "contracts"
	}
	if cfg.ABI == "" {
		cfg.ABI = "abi.json"
	}
	if cfg.Extension == "" {
		cfg.Extension = "html"
	}
	if cfg.History == "" {
		cfg.History = "history.db"
	}

	return &cfg, nil
}

// Dir is the directory holding the config file.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// Resolve makes p absolute relative to the config directory.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// ContractsDir is the directory searched for Solidity sources.
func (c *Config) ContractsDir() string { return c.Resolve(c.Contracts) }

// ABIPath is where the compiled EVMPages ABI is written and read.
func (c *Config) ABIPath() string { return c.Resolve(c.ABI) }

// HistoryPath is the publish history database.
func (c *Config) HistoryPath() string { return c.Resolve(c.History) }

// PagesAddress parses the deployed EVMPages address.
func (c *Config) PagesAddress() (common.Address, error) {
	if c.Pages == "" {
		return common.Address{}, fmt.Errorf("%q address not set in %s, deploy the contracts first", KeyPages, c.Path)
	}
	if !common.IsHexAddress(c.Pages) {
		return common.Address{}, fmt.Errorf("%q in %s is not a hex address: %s", KeyPages, c.Path, c.Pages)
	}
	return common.HexToAddress(c.Pages), nil
}

// Set writes key = value into the config file, keeping every other key, and
// updates c to match. The whole file is rewritten.
func (c *Config) Set(key string, value any) error {
	next := *c
	if err := next.apply(key, value); err != nil {
		return err
	}

	table := map[string]any{}
	if _, err := toml.DecodeFile(c.Path, &table); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", c.Path, err)
	}
	table[key] = value

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(table); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(c.Path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", c.Path, err)
	}

	*c = next
	return nil
}

func (c *Config) apply(key string, value any) error {
	switch key {
	case KeyRPC:
		c.RPC = fmt.Sprint(value)
	case KeyPages:
		c.Pages = fmt.Sprint(value)
	case KeyContracts:
		c.Contracts = fmt.Sprint(value)
	case KeyABI:
		c.ABI = fmt.Sprint(value)
	case KeyExtension:
		c.Extension = fmt.Sprint(value)
	case KeyHistory:
		c.History = fmt.Sprint(value)
	case KeyChainID, KeyMainPage:
		var n int64
		switch v := value.(type) {
		case int:
			n = int64(v)
		case int64:
			n = v
		case uint64:
			n = int64(v)
		default:
			return fmt.Errorf("%q must be an integer, got %T", key, value)
		}
		if key == KeyChainID {
			c.ChainID = n
		} else {
			c.MainPage = &n
		}
	}
	return nil
}
