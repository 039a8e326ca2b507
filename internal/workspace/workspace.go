// Package workspace holds the agency's domain state. A Workspace is the
// single writer for every record; views and tool handlers read snapshots and
// request changes through its command methods.
package workspace

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/models"
)

// DefaultMeetingTime is used when a meeting request carries no time.
const DefaultMeetingTime = "09:00"

// DateLayout is the ISO date format used for meeting and project dates.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when a command references an unknown record.
var ErrNotFound = errors.New("not found")

// ConflictError reports a meeting request whose slot is already taken.
type ConflictError struct {
	Requested models.Meeting
	Existing  models.Meeting
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s %s already taken by %q", e.Requested.Date, e.Requested.Time, e.Existing.Title)
}

// Recorder persists mutations. Every command writes through the recorder
// before changing memory; a recorder error aborts the command.
type Recorder interface {
	SaveTask(models.Task) error
	SaveMeeting(models.Meeting) error
	SaveProject(models.Project) error
	SaveBudget(models.BudgetProposal) error
	SaveTools([]models.MarketTool) error
}

// Options configures a Workspace.
type Options struct {
	// Now is the clock used for default dates. Defaults to time.Now.
	Now func() time.Time
	// Recorder is optional; without one the workspace is memory only.
	Recorder Recorder
	Logger   *zap.Logger
}

// Workspace owns tasks, meetings, projects, the team roster, the market
// catalog and budget proposals.
type Workspace struct {
	mu       sync.RWMutex
	tasks    []models.Task
	meetings []models.Meeting
	projects []models.Project
	team     []models.TeamMember
	tools    []models.MarketTool
	budgets  []models.BudgetProposal

	now    func() time.Time
	rec    Recorder
	logger *zap.Logger
}

// New creates a workspace holding a copy of snap.
func New(snap models.Snapshot, opts Options) *Workspace {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Workspace{
		tasks:    slices.Clone(snap.Tasks),
		meetings: slices.Clone(snap.Meetings),
		projects: slices.Clone(snap.Projects),
		team:     slices.Clone(snap.Team),
		tools:    slices.Clone(snap.Tools),
		budgets:  slices.Clone(snap.Budgets),
		now:      opts.Now,
		rec:      opts.Recorder,
		logger:   opts.Logger,
	}
}

// Today returns the current date in DateLayout.
func (w *Workspace) Today() string {
	return w.now().Format(DateLayout)
}

// Now reads the workspace clock.
func (w *Workspace) Now() time.Time {
	return w.now()
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.New().String()
}

// AddTask stores t at the top of the task list. An empty id is filled in.
func (w *Workspace) AddTask(t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.Status == "" {
		t.Status = models.TaskBacklog
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rec != nil {
		if err := w.rec.SaveTask(t); err != nil {
			return models.Task{}, fmt.Errorf("record task: %w", err)
		}
	}
	w.tasks = slices.Insert(w.tasks, 0, t)
	w.logger.Info("task created", zap.String("id", t.ID), zap.String("title", t.Title), zap.String("project", t.ProjectID))
	return t, nil
}

// ScheduleMeeting fills in the default time and today's date when missing,
// then rejects the meeting with a *ConflictError if another meeting already
// has the same date and time. Both fields are compared as plain strings.
func (w *Workspace) ScheduleMeeting(m models.Meeting) (models.Meeting, error) {
	if m.ID == "" {
		m.ID = NewID()
	}
	if m.Time == "" {
		m.Time = DefaultMeetingTime
	}
	if m.Date == "" {
		m.Date = w.Today()
	}
	if m.Type == "" {
		m.Type = models.MeetingInternal
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.meetings {
		if existing.Date == m.Date && existing.Time == m.Time {
			w.logger.Info("meeting conflict",
				zap.String("title", m.Title), zap.String("date", m.Date), zap.String("time", m.Time),
				zap.String("existing", existing.Title))
			return models.Meeting{}, &ConflictError{Requested: m, Existing: existing}
		}
	}

	if w.rec != nil {
		if err := w.rec.SaveMeeting(m); err != nil {
			return models.Meeting{}, fmt.Errorf("record meeting: %w", err)
		}
	}
	w.meetings = append(w.meetings, m)
	w.logger.Info("meeting scheduled", zap.String("id", m.ID), zap.String("date", m.Date), zap.String("time", m.Time))
	return m, nil
}

// AddProject stores p at the top of the project list.
func (w *Workspace) AddProject(p models.Project) (models.Project, error) {
	if p.ID == "" {
		p.ID = NewID()
	}
	if p.TeamIDs == nil {
		p.TeamIDs = []string{}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rec != nil {
		if err := w.rec.SaveProject(p); err != nil {
			return models.Project{}, fmt.Errorf("record project: %w", err)
		}
	}
	w.projects = slices.Insert(w.projects, 0, p)
	w.logger.Info("project created", zap.String("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProject replaces the project with the same id.
func (w *Workspace) UpdateProject(p models.Project) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.IndexFunc(w.projects, func(x models.Project) bool { return x.ID == p.ID })
	if i < 0 {
		return fmt.Errorf("project %q: %w", p.ID, ErrNotFound)
	}
	if w.rec != nil {
		if err := w.rec.SaveProject(p); err != nil {
			return fmt.Errorf("record project: %w", err)
		}
	}
	w.projects[i] = p
	return nil
}

// RecordBudget stores a budget proposal.
func (w *Workspace) RecordBudget(b models.BudgetProposal) (models.BudgetProposal, error) {
	if b.ID == "" {
		b.ID = NewID()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.rec != nil {
		if err := w.rec.SaveBudget(b); err != nil {
			return models.BudgetProposal{}, fmt.Errorf("record budget: %w", err)
		}
	}
	w.budgets = append(w.budgets, b)
	w.logger.Info("budget recorded", zap.String("id", b.ID), zap.String("client", b.ClientName),
		zap.Float64("total_monthly", b.TotalMonthly))
	return b, nil
}

// RefreshPrices replaces the catalog with transform(current catalog).
func (w *Workspace) RefreshPrices(transform func([]models.MarketTool) []models.MarketTool) ([]models.MarketTool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := transform(slices.Clone(w.tools))
	if w.rec != nil {
		if err := w.rec.SaveTools(next); err != nil {
			return nil, fmt.Errorf("record market tools: %w", err)
		}
	}
	w.tools = next
	w.logger.Info("market prices refreshed", zap.Int("tools", len(next)))
	return slices.Clone(next), nil
}

// Source is a store a workspace can be restored from.
type Source interface {
	Empty() (bool, error)
	Seed(models.Snapshot) error
	Load() (models.Snapshot, error)
}

// Restore loads the workspace from src, seeding it with DefaultSeed first
// when src holds nothing yet.
func Restore(src Source, opts Options) (*Workspace, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	empty, err := src.Empty()
	if err != nil {
		return nil, err
	}
	if empty {
		if err := src.Seed(DefaultSeed(opts.Now().Format(DateLayout))); err != nil {
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}
	snap, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	return New(snap, opts), nil
}
