package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/market"
	"github.com/wagneradl/opsdesk/internal/session"
)

const helpText = "/dashboard /projects /team /tasks /calendar /market · /open <project> · " +
	"/new <name>[, client] · /edit <status>[, description] · /upload <file> · /refresh · /compare <tool id> · /export [budget id] · /quit"

// runCommand handles a slash command.
func (m appModel) runCommand(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "help", "?":
		m.status = helpText
		return m, nil

	case "quit", "q":
		return m, tea.Quit

	case string(desk.Dashboard), string(desk.Projects), string(desk.Team), string(desk.Tasks),
		string(desk.Calendar), string(desk.Market):
		return m, navigate(m.desk, desk.View(strings.ToLower(name)))

	case "open":
		if arg == "" {
			m.status = "Usage: /open <project id or name>"
			return m, nil
		}
		return m, openProject(m.desk, arg)

	case "new":
		projectName, client, _ := strings.Cut(arg, ",")
		return m, newProject(m.desk, strings.TrimSpace(projectName), strings.TrimSpace(client))

	case "edit":
		p, ok := m.desk.CurrentProject()
		if !ok {
			m.status = "Open a project to edit it."
			return m, nil
		}
		if arg == "" {
			m.status = "Usage: /edit <status>[, description]"
			return m, nil
		}
		status, description, _ := strings.Cut(arg, ",")
		return m, editProject(m.desk, p.ID, strings.TrimSpace(status), strings.TrimSpace(description))

	case "upload":
		if arg == "" {
			m.status = "Usage: /upload <file name>"
			return m, nil
		}
		ch := make(chan int, 16)
		m.uploading = true
		m.uploadPct = 0
		return m, tea.Batch(upload(m.ctx, m.desk, arg, ch), waitProgress(ch))

	case "refresh":
		if m.desk.View() != desk.Market {
			m.status = "Open /market to refresh prices."
			return m, nil
		}
		if !m.desk.StartRefresh() {
			m.status = "A price refresh is already running."
			return m, nil
		}
		return m, refreshTick()

	case "compare":
		if m.desk.View() != desk.Market {
			m.status = "Open /market to compare tools."
			return m, nil
		}
		if !m.desk.ToggleCompare(arg) {
			m.status = fmt.Sprintf("Cannot compare %q: unknown tool or already %d selected.", arg, market.MaxCompare)
			return m, nil
		}
		m.status = ""
		return m, nil

	case "export":
		return m, export(m.desk, m.exportDir, arg)
	}

	m.status = fmt.Sprintf("Unknown command /%s. Try /help.", name)
	return m, nil
}

func openProject(d *desk.Desk, ref string) tea.Cmd {
	return func() tea.Msg {
		p, err := session.Find(d.Workspace(), ref)
		if err != nil {
			return navigatedMsg{view: desk.ProjectDetail, err: err}
		}
		return navigatedMsg{view: desk.ProjectDetail, err: d.SelectProject(p.ID)}
	}
}

func newProject(d *desk.Desk, name, client string) tea.Cmd {
	return func() tea.Msg {
		_, err := d.CreateProjectManual(name, client)
		return navigatedMsg{view: desk.ProjectDetail, err: err}
	}
}

func editProject(d *desk.Desk, id, status, description string) tea.Cmd {
	return func() tea.Msg {
		p, err := d.UpdateProject(id, description, status)
		return projectUpdatedMsg{project: p, err: err}
	}
}

func upload(ctx context.Context, d *desk.Desk, name string, ch chan<- int) tea.Cmd {
	return func() tea.Msg {
		err := d.Upload(ctx, name, func(p int) {
			select {
			case ch <- p:
			default:
			}
		})
		close(ch)
		return uploadDoneMsg{name: name, err: err}
	}
}

func export(d *desk.Desk, dir, id string) tea.Cmd {
	return func() tea.Msg {
		path, err := d.ExportBudget(dir, id)
		return exportDoneMsg{path: path, err: err}
	}
}
