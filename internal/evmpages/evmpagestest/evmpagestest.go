// Package evmpagestest runs the EVMPages contract on an in-process chain.
package evmpagestest

import (
	"context"
	_ "embed"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/evmpages/internal/chain"
	"github.com/hayeah/evmpages/internal/evmpages"
)

// combinedJSON is EVMPages in solc's --combined-json abi,bin format: the ABI
// of contracts/EVMPages.sol with bytecode that keeps its storage layout and
// revert rules, so tests run without a compiler.
//
//go:embed evmpages.combined.json
var combinedJSON []byte

// CombinedJSON returns the fixture compiler output.
func CombinedJSON() []byte {
	return combinedJSON
}

// Compiled returns EVMPages parsed from the fixture.
func Compiled(t testing.TB) evmpages.Compiled {
	t.Helper()
	contracts, err := evmpages.ParseCombinedJSON(combinedJSON)
	require.NoError(t, err)
	c, err := evmpages.Find(contracts, evmpages.ContractName)
	require.NoError(t, err)
	return c
}

// autoMine commits a block after every accepted transaction.
type autoMine struct {
	simulated.Client
	sim *simulated.Backend
}

func (a autoMine) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := a.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	a.sim.Commit()
	return nil
}

// NewClient starts a simulated chain with a funded signer. Every transaction
// is mined as soon as it is sent.
func NewClient(t testing.TB) *chain.Client {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	from := crypto.PubkeyToAddress(key.PublicKey)

	funds := new(big.Int).Mul(big.NewInt(1e18), big.NewInt(100))
	sim := simulated.NewBackend(types.GenesisAlloc{from: {Balance: funds}})
	t.Cleanup(func() { sim.Close() })

	chainID, err := sim.Client().ChainID(context.Background())
	require.NoError(t, err)

	return chain.New(autoMine{Client: sim.Client(), sim: sim}, key, chainID, nil)
}

// Deploy deploys the fixture contract with client.
func Deploy(t testing.TB, client *chain.Client) *evmpages.Pages {
	t.Helper()
	pages, _, err := evmpages.Deploy(context.Background(), client, Compiled(t))
	require.NoError(t, err)
	return pages
}
