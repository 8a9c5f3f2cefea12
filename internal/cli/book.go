package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/consultbook/internal/tui"
)

type BookCmd struct{}

func (c *BookCmd) Run(ctx *Context) error {
	model := tui.NewModel(context.Background(), ctx.NewWidget(), ctx.Client, ctx.NewSubmitter())
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("booking widget failed: %w", err)
	}

	m, ok := final.(tui.Model)
	if !ok {
		return nil
	}
	printOutcome(ctx.out(), m.Outcome())
	return nil
}
