package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/imoji/internal/generation"
)

type generationDoneMsg struct {
	ticket generation.Ticket
	at     time.Time
	err    error
}

type frameMsg time.Time

func generateJob(controller *generation.Controller, ticket generation.Ticket) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		err := controller.Wait(ctx, ticket)
		return generationDoneMsg{ticket: ticket, at: controller.Now(), err: err}, err
	}
}

func frameCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
