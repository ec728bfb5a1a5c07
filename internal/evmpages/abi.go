// Package evmpages compiles, deploys and talks to the EVMPages contract.
package evmpages

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ContractName is the contract looked up in solc output.
const ContractName = "EVMPages"

//go:embed evmpages.abi.json
var defaultABI []byte

// DefaultABI parses the ABI of the EVMPages contract shipped with the binary.
func DefaultABI() (abi.ABI, error) {
	return abi.JSON(bytes.NewReader(defaultABI))
}

// LoadABI reads the ABI written by a deploy. If the file does not exist the
// built-in ABI is used.
func LoadABI(path string) (abi.ABI, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultABI()
	}
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to read abi: %w", err)
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse abi %s: %w", path, err)
	}
	return parsed, nil
}
