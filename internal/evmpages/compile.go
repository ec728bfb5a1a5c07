package evmpages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/tidwall/gjson"
)

// ErrContractNotFound is returned by Find when no compiled contract has the
// requested name.
var ErrContractNotFound = errors.New("contract not found")

// Compiled is one contract from solc output.
type Compiled struct {
	Name     string
	Source   string
	ABI      abi.ABI
	ABIJSON  []byte
	Bytecode []byte
}

// Compile runs solc on every .sol file directly inside dir.
func Compile(ctx context.Context, solc, dir string) ([]Compiled, error) {
	if solc == "" {
		solc = "solc"
	}

	sources, err := filepath.Glob(filepath.Join(dir, "*.sol"))
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no solidity sources in %s", dir)
	}
	sort.Strings(sources)

	args := append([]string{"--combined-json", "abi,bin", "--optimize"}, sources...)
	cmd := exec.CommandContext(ctx, solc, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("solc failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return ParseCombinedJSON(stdout.Bytes())
}

// ParseCombinedJSON reads the output of solc --combined-json abi,bin.
// Contract keys have the form "path/to/File.sol:Name".
func ParseCombinedJSON(data []byte) ([]Compiled, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("solc output is not valid json")
	}

	var out []Compiled
	var perr error
	gjson.GetBytes(data, "contracts").ForEach(func(key, value gjson.Result) bool {
		c, err := parseContract(key.String(), value)
		if err != nil {
			perr = err
			return false
		}
		out = append(out, c)
		return true
	})
	if perr != nil {
		return nil, perr
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Source < out[j].Source
	})
	return out, nil
}

func parseContract(key string, value gjson.Result) (Compiled, error) {
	source, name := "", key
	if i := strings.LastIndex(key, ":"); i >= 0 {
		source, name = key[:i], key[i+1:]
	}

	// older solc releases emit the abi as a json string
	abiField := value.Get("abi")
	abiJSON := []byte(abiField.Raw)
	if abiField.Type == gjson.String {
		abiJSON = []byte(abiField.Str)
	}
	if !abiField.Exists() {
		return Compiled{}, fmt.Errorf("%s: missing abi", key)
	}

	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return Compiled{}, fmt.Errorf("%s: %w", key, err)
	}

	return Compiled{
		Name:     name,
		Source:   source,
		ABI:      parsed,
		ABIJSON:  abiJSON,
		Bytecode: common.FromHex(value.Get("bin").String()),
	}, nil
}

// Find returns the first contract called name.
func Find(contracts []Compiled, name string) (Compiled, error) {
	for _, c := range contracts {
		if c.Name == name {
			return c, nil
		}
	}
	return Compiled{}, fmt.Errorf("%s: %w", name, ErrContractNotFound)
}

// WriteABI writes the contract's ABI to path.
func (c Compiled) WriteABI(path string) error {
	if err := os.WriteFile(path, c.ABIJSON, 0644); err != nil {
		return fmt.Errorf("failed to write abi: %w", err)
	}
	return nil
}
