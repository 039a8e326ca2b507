// Package desk is the top-level orchestrator. It owns the workspace, the
// chat and the market refresher, tracks the current view and binds tool
// calls to workspace commands.
package desk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/assistant"
	"github.com/wagneradl/opsdesk/internal/market"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// View is a screen of the desk.
type View string

const (
	Dashboard     View = "dashboard"
	Projects      View = "projects"
	ProjectDetail View = "project-detail"
	Team          View = "team"
	Tasks         View = "tasks"
	Calendar      View = "calendar"
	Market        View = "market"
)

// Views lists every view in navigation order.
var Views = []View{Dashboard, Projects, ProjectDetail, Team, Tasks, Calendar, Market}

// Publisher mirrors scheduled meetings to an external calendar.
type Publisher interface {
	Publish(ctx context.Context, m models.Meeting) error
}

// Options configures a Desk.
type Options struct {
	Workspace *workspace.Workspace
	// Backend is nil when no model credential is configured.
	Backend   assistant.Backend
	Refresher *market.Refresher
	Publisher Publisher
	Logger    *zap.Logger
}

// Desk is safe for concurrent use.
type Desk struct {
	ws        *workspace.Workspace
	chat      *assistant.Chat
	refresher *market.Refresher
	publisher Publisher
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu            sync.Mutex
	view          View
	projectID     string
	compare       market.Selection
	budget        *models.BudgetProposal
	pending       string // project to open once the current turn ends
	cancelRefresh context.CancelFunc
	refreshGen    uint64
}

// New creates a desk on the dashboard with a general chat.
func New(opts Options) *Desk {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Refresher == nil {
		opts.Refresher = market.NewRefresher(nil, opts.Logger.Named("market"))
	}
	ctx, cancel := context.WithCancel(context.Background())
	session := assistant.NewSession(opts.Backend, opts.Logger.Named("assistant"))
	return &Desk{
		ws:        opts.Workspace,
		chat:      assistant.NewChat(session, assistant.Context{Mode: assistant.General}, opts.Logger.Named("chat")),
		refresher: opts.Refresher,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
		view:      Dashboard,
	}
}

// Workspace returns the owned workspace.
func (d *Desk) Workspace() *workspace.Workspace { return d.ws }

// Chat returns the chat bound to the current view.
func (d *Desk) Chat() *assistant.Chat { return d.chat }

// Refresher returns the market price refresher.
func (d *Desk) Refresher() *market.Refresher { return d.refresher }

// Close cancels background work and waits for it.
func (d *Desk) Close() {
	d.cancel()
	d.wg.Wait()
}

// View returns the current view.
func (d *Desk) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// CurrentProject returns the project shown by the project-detail view.
func (d *Desk) CurrentProject() (models.Project, bool) {
	d.mu.Lock()
	id := d.projectID
	d.mu.Unlock()
	if id == "" {
		return models.Project{}, false
	}
	return d.ws.Project(id)
}

// Navigate switches to v. Leaving the project detail forgets the selected
// project and leaving the market stops a running price refresh. Entering a
// view that hosts a chat from another view starts a fresh transcript.
func (d *Desk) Navigate(v View) error {
	if v == ProjectDetail {
		d.mu.Lock()
		id := d.projectID
		d.mu.Unlock()
		if id == "" {
			return fmt.Errorf("no project selected: %w", workspace.ErrNotFound)
		}
		return d.SelectProject(id)
	}
	d.mu.Lock()
	changed := d.enter(v)
	d.projectID = ""
	d.mu.Unlock()
	d.retarget(changed)
	return nil
}

// SelectProject opens the detail view of a project.
func (d *Desk) SelectProject(id string) error {
	if _, ok := d.ws.Project(id); !ok {
		return fmt.Errorf("project %q: %w", id, workspace.ErrNotFound)
	}
	d.mu.Lock()
	changed := d.enter(ProjectDetail)
	d.projectID = id
	d.mu.Unlock()
	d.retarget(changed)
	return nil
}

// enter sets the view and reports whether it changed. Any view but the
// market stops a running price refresh. d.mu must be held.
func (d *Desk) enter(v View) bool {
	if v != Market && d.cancelRefresh != nil {
		d.cancelRefresh()
		d.cancelRefresh = nil
	}
	changed := d.view != v
	d.view = v
	d.logger.Debug("navigate", zap.String("view", string(v)))
	return changed
}

// chatContext is the chat scope of the current view. Views without their
// own chat keep the previous one.
func (d *Desk) chatContext() (assistant.Context, bool) {
	d.mu.Lock()
	view, id := d.view, d.projectID
	d.mu.Unlock()

	switch view {
	case Dashboard:
		return assistant.Context{Mode: assistant.General}, true
	case Market:
		return assistant.Context{Mode: assistant.Market}, true
	case ProjectDetail:
		p, ok := d.ws.Project(id)
		if !ok {
			return assistant.Context{}, false
		}
		return assistant.Context{Mode: assistant.General, Project: &p}, true
	}
	return assistant.Context{}, false
}

// retarget rescopes the chat to the current view. With entered set the
// chat is reset even when the scope is unchanged.
func (d *Desk) retarget(entered bool) {
	next, ok := d.chatContext()
	if !ok || (!entered && sameScope(d.chat.Context(), next)) {
		return
	}
	d.chat.SetContext(next)
}

func sameScope(a, b assistant.Context) bool {
	if a.Mode != b.Mode || (a.Project == nil) != (b.Project == nil) {
		return false
	}
	return a.Project == nil || a.Project.ID == b.Project.ID
}

// Send submits text to the chat with the handlers of the current view. A
// project created during the turn is opened once the turn has finished,
// unless the user navigated away while it ran.
func (d *Desk) Send(ctx context.Context, text string) []models.ChatMessage {
	added := d.chat.Submit(ctx, text, d.Handlers(d.chat.Context()))

	d.mu.Lock()
	id := d.pending
	d.pending = ""
	d.mu.Unlock()
	if id != "" && added == nil {
		d.logger.Debug("turn superseded, not opening created project", zap.String("id", id))
		return nil
	}
	if id != "" {
		if err := d.SelectProject(id); err != nil {
			d.logger.Warn("open created project", zap.Error(err))
		}
	}
	return added
}

// Upload attaches a file to the chat after the simulated transfer.
func (d *Desk) Upload(ctx context.Context, name string, progress func(int)) error {
	return d.chat.Upload(ctx, name, progress)
}

// ActiveBudget returns the last generated proposal.
func (d *Desk) ActiveBudget() (models.BudgetProposal, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.budget == nil {
		return models.BudgetProposal{}, false
	}
	return *d.budget, true
}

// ToggleCompare adds or removes a tool from the comparison list. It reports
// false when the list is full or the tool is unknown.
func (d *Desk) ToggleCompare(id string) bool {
	known := false
	for _, t := range d.ws.Tools() {
		if t.ID == id {
			known = true
			break
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !known && !d.compare.Selected(id) {
		return false
	}
	return d.compare.Toggle(id)
}

// Compared returns the tools in the comparison list.
func (d *Desk) Compared() []models.MarketTool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.compare.Resolve(d.ws.Tools())
}

// Selection returns a copy of the comparison list.
func (d *Desk) Selection() market.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	var s market.Selection
	for _, id := range d.compare.IDs() {
		s.Toggle(id)
	}
	return s
}

// RefreshPrices runs the paced price refresh and waits for it. It returns
// market.ErrRunning when one is already in progress.
func (d *Desk) RefreshPrices(ctx context.Context) error {
	return d.refresher.Run(ctx, func(refresh func([]models.MarketTool) []models.MarketTool) error {
		_, err := d.ws.RefreshPrices(refresh)
		return err
	})
}

// StartRefresh runs the price refresh in the background and reports
// whether it started. It is cancelled when the desk navigates to any view
// but the market, or is closed.
func (d *Desk) StartRefresh() bool {
	d.mu.Lock()
	if d.cancelRefresh != nil || d.refresher.Active() {
		d.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(d.ctx)
	d.cancelRefresh = cancel
	d.refreshGen++
	gen := d.refreshGen
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()
		defer func() {
			cancel()
			d.mu.Lock()
			if d.refreshGen == gen {
				d.cancelRefresh = nil
			}
			d.mu.Unlock()
		}()
		err := d.RefreshPrices(ctx)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, market.ErrRunning) {
			d.logger.Error("price refresh failed", zap.Error(err))
		}
	}()
	return true
}
