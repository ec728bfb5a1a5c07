package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"

	"github.com/hayeah/evmpages/htmlmin"
	"github.com/hayeah/evmpages/ignore"
	"github.com/hayeah/evmpages/internal/chain"
	"github.com/hayeah/evmpages/internal/config"
	"github.com/hayeah/evmpages/internal/evmpages"
	"github.com/hayeah/evmpages/internal/store"
	"github.com/hayeah/evmpages/picker"
)

// Menu entries, in display order.
const (
	menuPublish  = "Publish a page"
	menuPackage  = "Publish a package"
	menuMainPage = "Set main page"
	menuDeploy   = "Compile and deploy contracts"
	menuHistory  = "Show publish history"
)

var menu = []string{menuPublish, menuPackage, menuMainPage, menuDeploy, menuHistory}

// App holds everything a command needs.
type App struct {
	Args     *Args
	Config   *config.Config
	Logger   *slog.Logger
	Chain    *chain.Client
	Store    *store.PageStore
	Prompt   picker.Prompter
	Minifier *htmlmin.Minifier
	Ignore   *ignore.Ignore
	Out      io.Writer
}

// Run dispatches to the subcommand, or asks which action to take.
func (app *App) Run(ctx context.Context) error {
	args := app.Args

	switch {
	case args.Publish != nil:
		return app.runPublish(ctx, args.Publish.File)
	case args.Package != nil:
		return app.runPackage(ctx, args.Package.Dir)
	case args.MainPage != nil:
		return app.runMainPage(ctx, args.MainPage.ID)
	case args.Deploy != nil:
		return app.runDeploy(ctx, args.Deploy.Solc)
	case args.History != nil:
		return app.runHistory(args.History.Limit)
	}

	i, err := app.Prompt.Select(ctx, "What would you like to do?", menu)
	if errors.Is(err, picker.ErrCancelled) {
		fmt.Fprintln(app.Out, "Cancelled.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read menu choice: %w", err)
	}

	switch menu[i] {
	case menuPublish:
		return app.runPublish(ctx, "")
	case menuPackage:
		return app.runPackage(ctx, "")
	case menuMainPage:
		return app.runMainPage(ctx, nil)
	case menuDeploy:
		return app.runDeploy(ctx, "")
	case menuHistory:
		return app.runHistory(defaultHistoryLimit)
	}
	return nil
}

// withTimeout bounds a network operation by --timeout.
func (app *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if app.Args.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, app.Args.Timeout)
}

// pickFile runs the file picker from --dir. ok is false if the user backed
// out.
func (app *App) pickFile(ctx context.Context, title string) (path string, ok bool, err error) {
	res, err := picker.Pick(ctx, app.Args.Dir, app.Config.Extension, app.Prompt,
		picker.WithIgnore(app.Ignore),
		picker.WithTitle(func(dir string) string {
			return fmt.Sprintf("%s (%s)", title, dir)
		}),
	)
	if err != nil {
		return "", false, err
	}
	if res.Outcome != picker.Selected {
		fmt.Fprintln(app.Out, "Cancelled.")
		return "", false, nil
	}
	return res.Path, true, nil
}

// pages binds the deployed contract named by the config.
func (app *App) pages() (*evmpages.Pages, error) {
	addr, err := app.Config.PagesAddress()
	if err != nil {
		return nil, err
	}
	parsed, err := evmpages.LoadABI(app.Config.ABIPath())
	if err != nil {
		return nil, err
	}
	return evmpages.NewPages(addr, parsed, app.Chain), nil
}

func (app *App) copyToClipboard(s string) {
	if !app.Args.Copy || s == "" {
		return
	}
	if err := clipboard.WriteAll(s); err != nil {
		app.Logger.Warn("failed to copy to clipboard", "err", err)
		return
	}
	fmt.Fprintf(app.Out, "Copied %s to the clipboard.\n", s)
}
