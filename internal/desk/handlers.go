package desk

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/assistant"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// Manual project form defaults.
const (
	DefaultProjectName   = "New Project"
	DefaultProjectClient = "Internal"
)

// Handlers returns the tool handlers for a chat scope. Market scope binds
// the budget and price tools; general scope binds the task, meeting and
// project tools, attaching new records to the scope's project.
func (d *Desk) Handlers(scope assistant.Context) assistant.Handlers {
	if scope.Mode == assistant.Market {
		return assistant.Handlers{
			GenerateBudget:     d.onGenerateBudget,
			UpdateMarketPrices: d.onUpdatePrices,
		}
	}
	projectID := scope.ProjectID()
	return assistant.Handlers{
		CreateTask: func(a assistant.CreateTaskArgs) string {
			return d.onCreateTask(a, projectID)
		},
		ScheduleMeeting: func(a assistant.ScheduleMeetingArgs) string {
			return d.onScheduleMeeting(a, projectID)
		},
		CreateProject: d.onCreateProject,
	}
}

// TaskFromArgs builds the backlog task for a createTask call.
func TaskFromArgs(a assistant.CreateTaskArgs, projectID string) models.Task {
	t := models.Task{
		ID:        workspace.NewID(),
		ProjectID: projectID,
		Title:     a.Title,
		Status:    models.TaskBacklog,
		Priority:  a.Priority,
		Area:      a.Area,
		Assignee:  a.Assignee,
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if t.Area == "" {
		t.Area = "general"
	}
	if t.Assignee == "" {
		t.Assignee = workspace.Unassigned
	}
	return t
}

func (d *Desk) onCreateTask(a assistant.CreateTaskArgs, projectID string) string {
	t := TaskFromArgs(a, projectID)
	if _, err := d.ws.AddTask(t); err != nil {
		d.logger.Error("create task", zap.Error(err))
		return fmt.Sprintf("Could not save task %q: %v", a.Title, err)
	}
	return ""
}

// ConflictNotice explains a rejected meeting request.
func ConflictNotice(c *workspace.ConflictError) string {
	return fmt.Sprintf("🚫 **SCHEDULING CONFLICT**\n\nCould not schedule %q.\nThe slot **%s** on **%s** is already taken by: %q.\n\nPlease request a different time.",
		c.Requested.Title, c.Requested.Time, c.Requested.Date, c.Existing.Title)
}

func (d *Desk) onScheduleMeeting(a assistant.ScheduleMeetingArgs, projectID string) string {
	m := models.Meeting{
		ProjectID: projectID,
		Title:     a.Title,
		Time:      a.Time,
		Date:      a.Date,
		Type:      models.MeetingInternal,
	}
	if _, err := d.ScheduleMeeting(m); err != nil {
		var conflict *workspace.ConflictError
		if errors.As(err, &conflict) {
			return ConflictNotice(conflict)
		}
		return fmt.Sprintf("Could not schedule %q: %v", a.Title, err)
	}
	return ""
}

// ScheduleMeeting schedules m and, when a publisher is configured, mirrors
// it to the external calendar in the background.
func (d *Desk) ScheduleMeeting(m models.Meeting) (models.Meeting, error) {
	m, err := d.ws.ScheduleMeeting(m)
	if err != nil {
		return m, err
	}
	if d.publisher != nil {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := d.publisher.Publish(d.ctx, m); err != nil {
				d.logger.Warn("publish meeting", zap.String("id", m.ID), zap.Error(err))
			}
		}()
	}
	return m, nil
}

// ProjectFromArgs builds the planning project for a createProject call.
func ProjectFromArgs(a assistant.CreateProjectArgs, today string) models.Project {
	p := models.Project{
		ID:          workspace.NewID(),
		Name:        a.Name,
		Client:      a.Client,
		Category:    a.Category,
		Description: a.Description,
		Status:      models.ProjectPlanning,
		StartDate:   today,
		Deadline:    "TBD",
		Progress:    0,
		TeamIDs:     []string{},
	}
	if p.Description == "" {
		p.Description = "New project via AI"
	}
	return p
}

func (d *Desk) onCreateProject(a assistant.CreateProjectArgs) string {
	p, err := d.ws.AddProject(ProjectFromArgs(a, d.ws.Today()))
	if err != nil {
		d.logger.Error("create project", zap.Error(err))
		return fmt.Sprintf("Could not save project %q: %v", a.Name, err)
	}
	d.mu.Lock()
	d.pending = p.ID
	d.mu.Unlock()
	return ""
}

// CreateProjectManual creates a project from the new-project form and opens
// it.
func (d *Desk) CreateProjectManual(name, client string) (models.Project, error) {
	if name == "" {
		name = DefaultProjectName
	}
	if client == "" {
		client = DefaultProjectClient
	}
	p, err := d.ws.AddProject(models.Project{
		ID:          workspace.NewID(),
		Name:        name,
		Client:      client,
		Description: "Project created manually.",
		Status:      models.ProjectPlanning,
		Category:    models.CategoryDevelopment,
		StartDate:   d.ws.Today(),
		Deadline:    "TBD",
		TeamIDs:     []string{},
	})
	if err != nil {
		return p, err
	}
	return p, d.SelectProject(p.ID)
}

// ErrInvalidStatus is returned for a project status outside
// models.ProjectStatuses.
var ErrInvalidStatus = errors.New("invalid project status")

// UpdateProject edits the description and status of a project. Empty
// arguments leave the field unchanged. When the chat is bound to the
// project it is re-targeted so its context reflects the edit.
func (d *Desk) UpdateProject(id, description, status string) (models.Project, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !slices.Contains(models.ProjectStatuses, status) {
		return models.Project{}, fmt.Errorf("%w %q (use %s)", ErrInvalidStatus, status, strings.Join(models.ProjectStatuses, ", "))
	}
	p, ok := d.ws.Project(id)
	if !ok {
		return models.Project{}, fmt.Errorf("project %q: %w", id, workspace.ErrNotFound)
	}
	if description = strings.TrimSpace(description); description != "" {
		p.Description = description
	}
	if status != "" {
		p.Status = status
	}
	if err := d.ws.UpdateProject(p); err != nil {
		return models.Project{}, err
	}
	d.logger.Info("project updated", zap.String("id", p.ID), zap.String("status", p.Status))

	if c := d.chat.Context(); c.ProjectID() == p.ID {
		c.Project = &p
		d.chat.SetContext(c)
	}
	return p, nil
}

// BudgetFromArgs builds the generated proposal for a generateBudget call.
func BudgetFromArgs(a assistant.GenerateBudgetArgs) models.BudgetProposal {
	return models.BudgetProposal{
		ID:           workspace.NewID(),
		ClientName:   a.ClientName,
		Items:        a.Items,
		SetupFee:     a.SetupFee,
		TotalMonthly: a.TotalMonthly,
		Status:       models.BudgetGenerated,
	}
}

func (d *Desk) onGenerateBudget(a assistant.GenerateBudgetArgs) string {
	b, err := d.ws.RecordBudget(BudgetFromArgs(a))
	if err != nil {
		d.logger.Error("record budget", zap.Error(err))
		return fmt.Sprintf("Could not save the budget for %s: %v", a.ClientName, err)
	}
	d.mu.Lock()
	d.budget = &b
	d.mu.Unlock()
	return ""
}

func (d *Desk) onUpdatePrices(assistant.UpdateMarketPricesArgs) string {
	d.StartRefresh()
	return ""
}
