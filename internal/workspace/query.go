package workspace

import (
	"slices"

	"github.com/wagneradl/opsdesk/internal/models"
)

// Unassigned is the assignee used when a task names nobody.
const Unassigned = "Unassigned"

// Tasks returns a copy of the task list, newest first.
func (w *Workspace) Tasks() []models.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.tasks)
}

// Meetings returns a copy of the meetings in scheduling order.
func (w *Workspace) Meetings() []models.Meeting {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.meetings)
}

// Projects returns a copy of the project list, newest first.
func (w *Workspace) Projects() []models.Project {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.projects)
}

// Team returns a copy of the roster.
func (w *Workspace) Team() []models.TeamMember {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.team)
}

// Tools returns a copy of the market catalog.
func (w *Workspace) Tools() []models.MarketTool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.tools)
}

// Budgets returns a copy of the recorded budget proposals.
func (w *Workspace) Budgets() []models.BudgetProposal {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.budgets)
}

// Snapshot returns a copy of every record.
func (w *Workspace) Snapshot() models.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return models.Snapshot{
		Tasks:    slices.Clone(w.tasks),
		Meetings: slices.Clone(w.meetings),
		Projects: slices.Clone(w.projects),
		Team:     slices.Clone(w.team),
		Tools:    slices.Clone(w.tools),
		Budgets:  slices.Clone(w.budgets),
	}
}

// Project looks up a project by id.
func (w *Workspace) Project(id string) (models.Project, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range w.projects {
		if p.ID == id {
			return p, true
		}
	}
	return models.Project{}, false
}

// Member looks up a team member by id.
func (w *Workspace) Member(id string) (models.TeamMember, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, m := range w.team {
		if m.ID == id {
			return m, true
		}
	}
	return models.TeamMember{}, false
}

// Budget looks up a budget proposal by id.
func (w *Workspace) Budget(id string) (models.BudgetProposal, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, b := range w.budgets {
		if b.ID == id {
			return b, true
		}
	}
	return models.BudgetProposal{}, false
}

// AssigneeName resolves a task assignee, which is either a member id or a
// free-text name.
func (w *Workspace) AssigneeName(ref string) string {
	if ref == "" {
		return Unassigned
	}
	if m, ok := w.Member(ref); ok {
		return m.Name
	}
	return ref
}

// OpenTaskCount counts tasks not yet done.
func (w *Workspace) OpenTaskCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, t := range w.tasks {
		if t.Status != models.TaskDone {
			n++
		}
	}
	return n
}

// Column is one board column.
type Column struct {
	Status string
	Tasks  []models.Task
}

// Board groups tasks into the four status columns, in column order. Tasks
// with an unknown status are left out.
func (w *Workspace) Board() []Column {
	w.mu.RLock()
	defer w.mu.RUnlock()
	cols := make([]Column, len(models.TaskStatuses))
	for i, s := range models.TaskStatuses {
		cols[i].Status = s
	}
	for _, t := range w.tasks {
		if i := slices.Index(models.TaskStatuses, t.Status); i >= 0 {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}

// ProjectTasks returns the tasks attached to a project.
func (w *Workspace) ProjectTasks(projectID string) []models.Task {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Task
	for _, t := range w.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// MemberTasks returns the tasks assigned to a member, by id or by name.
func (w *Workspace) MemberTasks(memberID string) []models.Task {
	m, _ := w.Member(memberID)
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Task
	for _, t := range w.tasks {
		if t.Assignee == memberID || (m.Name != "" && t.Assignee == m.Name) {
			out = append(out, t)
		}
	}
	return out
}

// MemberProjects returns the projects whose team includes the member.
func (w *Workspace) MemberProjects(memberID string) []models.Project {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Project
	for _, p := range w.projects {
		if slices.Contains(p.TeamIDs, memberID) {
			out = append(out, p)
		}
	}
	return out
}

// MeetingsOn returns the meetings on a date (yyyy-mm-dd), in schedule order.
func (w *Workspace) MeetingsOn(date string) []models.Meeting {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []models.Meeting
	for _, m := range w.meetings {
		if m.Date == date {
			out = append(out, m)
		}
	}
	return out
}
