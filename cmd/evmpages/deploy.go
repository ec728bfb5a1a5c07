package main

import (
	"context"
	"fmt"

	"github.com/hayeah/evmpages/internal/config"
	"github.com/hayeah/evmpages/internal/evmpages"
)

type DeployCmd struct {
	Solc string `arg:"--solc,env:SOLC" default:"solc" help:"solc executable"`
}

func (app *App) runDeploy(ctx context.Context, solc string) error {
	dir := app.Config.ContractsDir()
	fmt.Fprintf(app.Out, "Compiling contracts in %s...\n", dir)

	contracts, err := evmpages.Compile(ctx, solc, dir)
	if err != nil {
		return err
	}
	compiled, err := evmpages.Find(contracts, evmpages.ContractName)
	if err != nil {
		return err
	}

	abiPath := app.Config.ABIPath()
	if err := compiled.WriteABI(abiPath); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "ABI written to %s\n", abiPath)

	app.checkChain(ctx)

	ctx, cancel := app.withTimeout(ctx)
	defer cancel()

	fmt.Fprintf(app.Out, "Deploying %s...\n", compiled.Name)
	pages, tx, err := evmpages.Deploy(ctx, app.Chain, compiled)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "%s deployed at %s (tx %s)\n", compiled.Name, pages.Address.Hex(), tx.Hash().Hex())

	if err := app.Config.Set(config.KeyPages, pages.Address.Hex()); err != nil {
		return err
	}
	fmt.Fprintf(app.Out, "Saved %q to %s\n", config.KeyPages, app.Config.Path)

	app.copyToClipboard(pages.Address.Hex())
	return nil
}
