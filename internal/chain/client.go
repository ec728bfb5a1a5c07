package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ErrReverted is returned when a mined transaction has a failed status.
var ErrReverted = errors.New("transaction reverted")

// Backend is the part of a JSON-RPC client the publisher needs.
// *ethclient.Client and the simulated backend's client both satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Client signs transactions with a single key and sends them through a
// Backend.
type Client struct {
	Backend Backend
	From    common.Address
	ChainID *big.Int
	Logger  *slog.Logger

	key   *ecdsa.PrivateKey
	close func()
}

// New returns a Client that signs for chainID with key.
func New(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Backend: backend,
		From:    crypto.PubkeyToAddress(key.PublicKey),
		ChainID: new(big.Int).Set(chainID),
		Logger:  logger,
		key:     key,
	}
}

// Dial connects to rpcURL. The node's chain ID is compared against chainID
// and a mismatch is logged; transactions are always signed for chainID.
func Dial(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, chainID int64, logger *slog.Logger) (*Client, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("no rpc endpoint configured")
	}

	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}

	c := New(ec, key, big.NewInt(chainID), logger)
	c.close = ec.Close
	c.Logger.Debug("rpc client ready", "rpc", rpcURL, "from", c.From.Hex(), "chainID", chainID)
	return c, nil
}

// CheckChainID asks the node for its chain ID and reports whether it matches
// the one transactions are signed for.
func (c *Client) CheckChainID(ctx context.Context) (bool, error) {
	remote, err := c.Backend.ChainID(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if remote.Cmp(c.ChainID) != 0 {
		c.Logger.Warn("chain ID mismatch", "node", remote, "configured", c.ChainID)
		return false, nil
	}
	return true, nil
}

// Close releases the RPC connection, if Dial opened one.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

// TransactOpts returns signing options bound to ctx for contract calls.
func (c *Client) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// CallOpts returns read-only call options from the signer's address.
func (c *Client) CallOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: c.From}
}

// SendData signs and broadcasts a transaction carrying data as calldata to
// the to address. It does not wait for the transaction to be mined.
func (c *Client) SendData(ctx context.Context, to common.Address, data []byte) (*types.Transaction, error) {
	nonce, err := c.Backend.PendingNonceAt(ctx, c.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce for %s: %w", c.From.Hex(), err)
	}

	gas, err := c.Backend.EstimateGas(ctx, ethereum.CallMsg{
		From: c.From,
		To:   &to,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	txData, err := c.feeTx(ctx, nonce, to, gas, data)
	if err != nil {
		return nil, err
	}

	signed, err := types.SignTx(types.NewTx(txData), types.LatestSignerForChainID(c.ChainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.Backend.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.Logger.Debug("transaction sent", "hash", signed.Hash().Hex(), "to", to.Hex(), "bytes", len(data), "gas", gas)
	return signed, nil
}

// feeTx builds a dynamic fee transaction when the chain reports a base fee,
// and a legacy one otherwise.
func (c *Client) feeTx(ctx context.Context, nonce uint64, to common.Address, gas uint64, data []byte) (types.TxData, error) {
	head, err := c.Backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest header: %w", err)
	}

	if head.BaseFee == nil {
		gasPrice, err := c.Backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to suggest gas price: %w", err)
		}
		return &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Data:     data,
		}, nil
	}

	tip, err := c.Backend.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas tip: %w", err)
	}
	feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))

	return &types.DynamicFeeTx{
		ChainID:   c.ChainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Data:      data,
	}, nil
}

// WaitMined blocks until tx has a receipt and fails if it reverted.
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.Backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%s: %w", tx.Hash().Hex(), ErrReverted)
	}

	c.Logger.Debug("transaction mined", "hash", tx.Hash().Hex(), "block", receipt.BlockNumber, "gasUsed", receipt.GasUsed)
	return receipt, nil
}

// PublishData sends data as calldata to the to address and waits for the
// receipt.
func (c *Client) PublishData(ctx context.Context, to common.Address, data []byte) (*types.Receipt, error) {
	tx, err := c.SendData(ctx, to, data)
	if err != nil {
		return nil, err
	}
	return c.WaitMined(ctx, tx)
}
