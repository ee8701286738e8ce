package system

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/consistency/internal/cli"
	"github.com/julianstephens/consistency/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	engine, err := ctx.Engine(context.Background())
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(engine), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
