package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hayeah/evmpages/internal/evmpages"
	"github.com/hayeah/evmpages/internal/store"
)

type PublishCmd struct {
	File string `arg:"positional" help:"page to publish (default: pick one)"`
}

func (app *App) runPublish(ctx context.Context, file string) error {
	if file == "" {
		path, ok, err := app.pickFile(ctx, "Select a page to publish")
		if err != nil || !ok {
			return err
		}
		file = path
	}

	pages, err := app.pages()
	if err != nil {
		return err
	}
	app.checkChain(ctx)

	rec, err := app.publishPage(ctx, pages, file)
	if err != nil {
		return err
	}
	app.copyToClipboard(rec.TxHash)
	return nil
}

// publishPage minifies file, stores it as calldata sent to the contract,
// declares the transaction as the signer's next page and records it in the
// history.
func (app *App) publishPage(ctx context.Context, pages *evmpages.Pages, file string) (store.Page, error) {
	info, err := os.Stat(file)
	if err != nil {
		return store.Page{}, fmt.Errorf("failed to stat %s: %w", file, err)
	}

	page, err := app.Minifier.MinifyFile(file)
	if err != nil {
		return store.Page{}, err
	}
	app.Logger.Debug("page minified", "file", file, "size", info.Size(), "minified", len(page))

	ctx, cancel := app.withTimeout(ctx)
	defer cancel()

	fmt.Fprintln(app.Out, "Storing page in a transaction...")
	receipt, err := app.Chain.PublishData(ctx, pages.Address, page)
	if err != nil {
		return store.Page{}, fmt.Errorf("failed to store page: %w", err)
	}
	fmt.Fprintf(app.Out, "Page stored: %s\n", receipt.TxHash.Hex())

	// the ID a page gets is the count declared before it
	id, err := pages.PagesDeclared(ctx, app.Chain.From)
	if err != nil {
		return store.Page{}, err
	}

	fmt.Fprintln(app.Out, "Declaring page...")
	declared, err := pages.DeclarePage(ctx, receipt.TxHash)
	if err != nil {
		return store.Page{}, fmt.Errorf("failed to declare page: %w", err)
	}
	fmt.Fprintf(app.Out, "New page declared for address %s with ID %s\n", app.Chain.From.Hex(), id)

	pageID := id.Int64()
	rec := store.Page{
		File:         file,
		Contract:     pages.Address.Hex(),
		TxHash:       receipt.TxHash.Hex(),
		DeclareTx:    declared.TxHash.Hex(),
		PageID:       &pageID,
		Size:         int(info.Size()),
		MinifiedSize: len(page),
	}
	if _, err := app.Store.Add(rec); err != nil {
		app.Logger.Warn("page published but not recorded", "err", err)
	}
	return rec, nil
}

// checkChain warns when the node is on a different chain than the config.
func (app *App) checkChain(ctx context.Context) {
	ctx, cancel := app.withTimeout(ctx)
	defer cancel()
	if _, err := app.Chain.CheckChainID(ctx); err != nil {
		app.Logger.Warn("could not check chain ID", "err", err)
	}
}
