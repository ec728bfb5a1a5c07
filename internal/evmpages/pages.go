package evmpages

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/hayeah/evmpages/internal/chain"
)

// Pages is a handle on a deployed EVMPages contract.
type Pages struct {
	Address common.Address

	client   *chain.Client
	contract *bind.BoundContract
}

// NewPages binds the contract at address using parsed as its ABI.
func NewPages(address common.Address, parsed abi.ABI, client *chain.Client) *Pages {
	b := client.Backend
	return &Pages{
		Address:  address,
		client:   client,
		contract: bind.NewBoundContract(address, parsed, b, b, b),
	}
}

// Deploy sends the contract creation transaction for c and waits until the
// contract code is on chain.
func Deploy(ctx context.Context, client *chain.Client, c Compiled) (*Pages, *types.Transaction, error) {
	if len(c.Bytecode) == 0 {
		return nil, nil, fmt.Errorf("%s has no bytecode", c.Name)
	}

	opts, err := client.TransactOpts(ctx)
	if err != nil {
		return nil, nil, err
	}

	addr, tx, _, err := bind.DeployContract(opts, c.ABI, c.Bytecode, client.Backend)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to deploy %s: %w", c.Name, err)
	}
	client.Logger.Debug("deploy sent", "contract", c.Name, "address", addr.Hex(), "hash", tx.Hash().Hex())

	if _, err := bind.WaitDeployed(ctx, client.Backend, tx); err != nil {
		return nil, tx, fmt.Errorf("failed waiting for %s deployment: %w", c.Name, err)
	}

	return NewPages(addr, c.ABI, client), tx, nil
}

func (p *Pages) call(ctx context.Context, method string, args ...any) (any, error) {
	var out []any
	if err := p.contract.Call(p.client.CallOpts(ctx), &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("%s: expected 1 result, got %d", method, len(out))
	}
	return out[0], nil
}

func asUint(method string, v any) (*big.Int, error) {
	n, ok := v.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected result type %T", method, v)
	}
	return n, nil
}

// PagesDeclared is the number of pages owner has declared. It is also the ID
// the next declared page will get.
func (p *Pages) PagesDeclared(ctx context.Context, owner common.Address) (*big.Int, error) {
	v, err := p.call(ctx, "pagesDeclared", owner)
	if err != nil {
		return nil, err
	}
	return asUint("pagesDeclared", v)
}

// Page returns the transaction hash stored for page id of owner.
func (p *Pages) Page(ctx context.Context, owner common.Address, id *big.Int) (common.Hash, error) {
	v, err := p.call(ctx, "pages", owner, id)
	if err != nil {
		return common.Hash{}, err
	}
	h, ok := v.([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("pages: unexpected result type %T", v)
	}
	return common.Hash(h), nil
}

// MainPage is the ID owner has marked as the landing page.
func (p *Pages) MainPage(ctx context.Context, owner common.Address) (*big.Int, error) {
	v, err := p.call(ctx, "mainPage", owner)
	if err != nil {
		return nil, err
	}
	return asUint("mainPage", v)
}

func (p *Pages) transact(ctx context.Context, method string, args ...any) (*types.Receipt, error) {
	opts, err := p.client.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := p.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	p.client.Logger.Debug("contract call sent", "method", method, "hash", tx.Hash().Hex())

	return p.client.WaitMined(ctx, tx)
}

// DeclarePage records the transaction holding a page under the signer's
// address and waits for it to be mined.
func (p *Pages) DeclarePage(ctx context.Context, pageTx common.Hash) (*types.Receipt, error) {
	return p.transact(ctx, "declarePage", [32]byte(pageTx))
}

// SetMainPage marks page id as the signer's landing page.
func (p *Pages) SetMainPage(ctx context.Context, id *big.Int) (*types.Receipt, error) {
	return p.transact(ctx, "setMainPage", id)
}
