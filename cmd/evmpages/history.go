package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hayeah/evmpages/internal/store"
)

const defaultHistoryLimit = 20

type HistoryCmd struct {
	Limit int `arg:"-n,--limit" default:"20" help:"number of entries to show, 0 for all"`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func (app *App) runHistory(limit int) error {
	pages, err := app.Store.List(limit)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintln(app.Out, "No pages published yet.")
		return nil
	}

	fmt.Fprintln(app.Out, historyTable(pages))
	return nil
}

func historyTable(pages []store.Page) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Published", "Page", "File", "Tx", "Bytes")

	for _, p := range pages {
		id := "-"
		if p.PageID != nil {
			id = strconv.FormatInt(*p.PageID, 10)
		}
		t.Row(
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			id,
			p.File,
			p.TxHash,
			fmt.Sprintf("%d → %d", p.Size, p.MinifiedSize),
		)
	}
	return t.Render()
}
