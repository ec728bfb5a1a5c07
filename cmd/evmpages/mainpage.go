package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/hayeah/evmpages/internal/config"
	"github.com/hayeah/evmpages/picker"
)

// maxPageChoices caps the menu built from the declared page count.
const maxPageChoices = 1000

type MainPageCmd struct {
	ID *int64 `arg:"positional" help:"page ID (default: choose from the declared pages)"`
}

func (app *App) runMainPage(ctx context.Context, id *int64) error {
	pages, err := app.pages()
	if err != nil {
		return err
	}

	tctx, cancel := app.withTimeout(ctx)
	n, err := pages.PagesDeclared(tctx, app.Chain.From)
	cancel()
	if err != nil {
		return err
	}
	if n.Sign() == 0 {
		return fmt.Errorf("no pages declared for %s, publish a page first", app.Chain.From.Hex())
	}

	if id == nil {
		chosen, ok, err := app.choosePage(ctx, n)
		if err != nil || !ok {
			return err
		}
		id = &chosen
	}
	if *id < 0 || big.NewInt(*id).Cmp(n) >= 0 {
		return fmt.Errorf("page %d does not exist, %s has %s pages", *id, app.Chain.From.Hex(), n)
	}

	tctx, cancel = app.withTimeout(ctx)
	defer cancel()

	fmt.Fprintln(app.Out, "Setting main page...")
	if _, err := pages.SetMainPage(tctx, big.NewInt(*id)); err != nil {
		return fmt.Errorf("failed to set main page: %w", err)
	}
	if err := app.Config.Set(config.KeyMainPage, *id); err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "Main page set to %d\n", *id)
	return nil
}

func (app *App) choosePage(ctx context.Context, n *big.Int) (int64, bool, error) {
	count := int64(maxPageChoices)
	if n.IsInt64() && n.Int64() < count {
		count = n.Int64()
	}

	options := make([]string, count)
	for i := range options {
		options[i] = fmt.Sprintf("Page %d", i)
		if mp := app.Config.MainPage; mp != nil && *mp == int64(i) {
			options[i] += " (main)"
		}
	}

	i, err := app.Prompt.Select(ctx, "Select the main page", options)
	if errors.Is(err, picker.ErrCancelled) {
		fmt.Fprintln(app.Out, "Cancelled.")
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read page choice: %w", err)
	}
	return int64(i), true, nil
}
