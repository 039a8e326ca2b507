package tui

import (
	"time"

	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/models"
)

// refreshInterval is how often the view is redrawn while prices refresh.
const refreshInterval = 200 * time.Millisecond

type replyMsg struct {
	added []models.ChatMessage
}

type navigatedMsg struct {
	view desk.View
	err  error
}

type uploadProgressMsg struct {
	percent int
	ch      <-chan int
}

type uploadDoneMsg struct {
	name string
	err  error
}

type exportDoneMsg struct {
	path string
	err  error
}

type projectUpdatedMsg struct {
	project models.Project
	err     error
}

type refreshTickMsg struct{}

// flashMsg replaces the status line.
type flashMsg string
