// Package tui is the interactive terminal desk: the current view above, the
// assistant transcript below and a single input line that takes chat text
// or slash commands.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/render"
)

// transcriptLimit is how many chat messages stay on screen.
const transcriptLimit = 8

// Options configures the terminal desk.
type Options struct {
	Desk *desk.Desk
	// ExportDir receives budgets exported with /export.
	ExportDir string
	Logger    *zap.Logger
}

// Run starts the desk and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type appModel struct {
	desk      *desk.Desk
	exportDir string
	logger    *zap.Logger
	ctx       context.Context

	input   textinput.Model
	spinner spinner.Model

	width  int
	height int

	busy      bool
	uploading bool
	uploadPct int
	status    string
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	in := textinput.New()
	in.Placeholder = "Ask the assistant, or /help"
	in.Prompt = "› "
	in.CharLimit = 2000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = accentStyle

	return appModel{
		desk:      opts.Desk,
		exportDir: opts.ExportDir,
		logger:    opts.Logger,
		ctx:       ctx,
		input:     in,
		spinner:   sp,
		width:     100,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		m.height = max(msg.Height, 0)
		m.input.Width = max(m.width-4, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			return m, navigate(m.desk, nextView(m.desk.View()))
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			return m.submit(text)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case replyMsg:
		m.busy = false
		if m.desk.Refresher().Active() {
			return m, refreshTick()
		}
		return m, nil

	case navigatedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = ""
		}
		return m, nil

	case uploadProgressMsg:
		m.uploadPct = msg.percent
		return m, waitProgress(msg.ch)

	case uploadDoneMsg:
		m.uploading = false
		m.uploadPct = 0
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.status = fmt.Sprintf("Upload of %s failed: %v", msg.name, msg.err)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = "Budget exported to " + msg.path
		}
		return m, nil

	case projectUpdatedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = fmt.Sprintf("%s is now %s.", msg.project.Name, msg.project.Status)
		}
		return m, nil

	case refreshTickMsg:
		if m.desk.Refresher().Active() {
			return m, refreshTick()
		}
		return m, nil

	case flashMsg:
		m.status = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit routes one line of input.
func (m appModel) submit(text string) (tea.Model, tea.Cmd) {
	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}
	if m.busy {
		m.status = "The assistant is still answering."
		return m, nil
	}
	if text == "" && len(m.desk.Chat().Attachments()) == 0 {
		return m, nil
	}
	m.busy = true
	m.status = ""
	return m, tea.Batch(send(m.ctx, m.desk, text), m.spinner.Tick)
}

func send(ctx context.Context, d *desk.Desk, text string) tea.Cmd {
	return func() tea.Msg {
		return replyMsg{added: d.Send(ctx, text)}
	}
}

// navigate switches views in a command. Navigate blocks while a chat turn
// is in flight.
func navigate(d *desk.Desk, v desk.View) tea.Cmd {
	return func() tea.Msg {
		return navigatedMsg{view: v, err: d.Navigate(v)}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(_ time.Time) tea.Msg { return refreshTickMsg{} })
}

func waitProgress(ch <-chan int) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return uploadProgressMsg{percent: p, ch: ch}
	}
}

// tabViews are the views reachable with tab. The project detail needs a
// selected project and is opened with /open.
var tabViews = []desk.View{desk.Dashboard, desk.Projects, desk.Team, desk.Tasks, desk.Calendar, desk.Market}

func nextView(cur desk.View) desk.View {
	for i, v := range tabViews {
		if v == cur {
			return tabViews[(i+1)%len(tabViews)]
		}
	}
	return tabViews[0]
}

func (m appModel) View() string {
	width := max(m.width, 40)
	sections := []string{
		m.viewTabs(),
		m.viewMain(width),
		ruleStyle.Render(strings.Repeat("─", width)),
		m.viewTranscript(width),
		m.viewInput(),
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m appModel) viewTabs() string {
	cur := m.desk.View()
	tabs := make([]string, 0, len(desk.Views))
	for _, v := range desk.Views {
		label := string(v)
		if v == desk.ProjectDetail {
			p, ok := m.desk.CurrentProject()
			if !ok {
				continue
			}
			label = p.Name
		}
		if v == cur {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m appModel) viewMain(width int) string {
	ws := m.desk.Workspace()
	switch m.desk.View() {
	case desk.Projects:
		return render.Projects(ws)
	case desk.ProjectDetail:
		p, ok := m.desk.CurrentProject()
		if !ok {
			return mutedStyle.Render("No project selected.")
		}
		out, err := render.ProjectDetail(ws, p.ID)
		if err != nil {
			return err.Error()
		}
		return out
	case desk.Team:
		return render.Team(ws)
	case desk.Tasks:
		return render.Kanban(ws, width)
	case desk.Calendar:
		return render.Calendar(ws)
	case desk.Market:
		sel := m.desk.Selection()
		parts := []string{render.Market(ws.Tools(), &sel, m.desk.Refresher().Status())}
		if cmp := m.desk.Compared(); len(cmp) > 0 {
			parts = append(parts, render.Compare(cmp))
		}
		if b, ok := m.desk.ActiveBudget(); ok {
			parts = append(parts, render.Budget(b))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return render.Dashboard(ws, width)
}

func (m appModel) viewTranscript(width int) string {
	msgs := m.desk.Chat().Messages()
	if len(msgs) > transcriptLimit {
		msgs = msgs[len(msgs)-transcriptLimit:]
	}
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, renderMessage(msg, width))
	}
	return strings.Join(lines, "\n")
}

func renderMessage(msg models.ChatMessage, width int) string {
	if msg.Role == models.RoleUser {
		text := msg.Text
		if len(msg.Attachments) > 0 {
			text += mutedStyle.Render("  📎 " + strings.Join(msg.Attachments, ", "))
		}
		return userStyle.Render("You: ") + text
	}
	return render.Markdown(msg.Text, width-2)
}

func (m appModel) viewInput() string {
	line := m.input.View()
	if m.busy {
		line = m.spinner.View() + " " + line
	}
	if files := m.desk.Chat().Attachments(); len(files) > 0 {
		line += mutedStyle.Render(fmt.Sprintf("  [%d attached]", len(files)))
	}
	if m.uploading {
		line += mutedStyle.Render(fmt.Sprintf("  uploading %d%%", m.uploadPct))
	}
	return line
}
