package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"queuepanel/internal/panel"
)

// Run drives p from an interactive terminal until the user quits, ctx is
// cancelled, or the panel loop fails.
func Run(ctx context.Context, p *panel.Panel) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := make(chan panel.HostEvent, 32)
	program := tea.NewProgram(NewModel(host, p.Frames()), tea.WithAltScreen(), tea.WithContext(ctx))

	loopErr := make(chan error, 1)
	go func() {
		err := p.Run(ctx, host)
		loopErr <- err
		program.Send(DoneMsg{Err: err})
	}()

	_, err := program.Run()
	cancel()
	panelErr := <-loopErr

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return panelErr
}
