package storage

import (
	"encoding/json"
	"fmt"

	"github.com/wagneradl/opsdesk/internal/models"
)

// Load reads every stored record. Tasks and projects come back newest first,
// meetings and budgets in insertion order, tools in catalog order.
func (s *Store) Load() (models.Snapshot, error) {
	var snap models.Snapshot
	var err error

	if snap.Tasks, err = s.loadTasks(); err != nil {
		return snap, err
	}
	if snap.Meetings, err = s.loadMeetings(); err != nil {
		return snap, err
	}
	if snap.Projects, err = s.loadProjects(); err != nil {
		return snap, err
	}
	if snap.Team, err = s.loadTeam(); err != nil {
		return snap, err
	}
	if snap.Tools, err = s.loadTools(); err != nil {
		return snap, err
	}
	if snap.Budgets, err = s.loadBudgets(); err != nil {
		return snap, err
	}
	return snap, nil
}

func (s *Store) loadTasks() ([]models.Task, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, title, status, priority, area, assignee, description, due_date, estimated_hours
		 FROM tasks ORDER BY rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Status, &t.Priority, &t.Area, &t.Assignee,
			&t.Description, &t.DueDate, &t.EstimatedHours); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) loadMeetings() ([]models.Meeting, error) {
	rows, err := s.db.Query(`SELECT id, project_id, title, time, date, type, attendees FROM meetings ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()

	var meetings []models.Meeting
	for rows.Next() {
		var m models.Meeting
		var attendees string
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Title, &m.Time, &m.Date, &m.Type, &attendees); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		if err := decodeJSON(attendees, &m.Attendees); err != nil {
			return nil, fmt.Errorf("meeting %q attendees: %w", m.ID, err)
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func (s *Store) loadProjects() ([]models.Project, error) {
	rows, err := s.db.Query(
		`SELECT id, name, client, description, status, category, start_date, deadline, progress, team_ids, tech_stack, roadmap
		 FROM projects ORDER BY rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var p models.Project
		var teamIDs, techStack, roadmap string
		if err := rows.Scan(&p.ID, &p.Name, &p.Client, &p.Description, &p.Status, &p.Category, &p.StartDate,
			&p.Deadline, &p.Progress, &teamIDs, &techStack, &roadmap); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if err := decodeJSON(teamIDs, &p.TeamIDs); err != nil {
			return nil, fmt.Errorf("project %q team: %w", p.ID, err)
		}
		if err := decodeJSON(techStack, &p.TechStack); err != nil {
			return nil, fmt.Errorf("project %q tech stack: %w", p.ID, err)
		}
		if err := decodeJSON(roadmap, &p.Roadmap); err != nil {
			return nil, fmt.Errorf("project %q roadmap: %w", p.ID, err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) loadTeam() ([]models.TeamMember, error) {
	rows, err := s.db.Query(
		`SELECT id, name, role, avatar, status, skills, experience, bio, schedule, workload
		 FROM team_members ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list team: %w", err)
	}
	defer rows.Close()

	var team []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		var skills string
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.Avatar, &m.Status, &skills, &m.Experience, &m.Bio,
			&m.Schedule, &m.Workload); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if err := decodeJSON(skills, &m.Skills); err != nil {
			return nil, fmt.Errorf("member %q skills: %w", m.ID, err)
		}
		team = append(team, m)
	}
	return team, rows.Err()
}

func (s *Store) loadTools() ([]models.MarketTool, error) {
	rows, err := s.db.Query(`SELECT data FROM market_tools ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list market tools: %w", err)
	}
	defer rows.Close()

	var tools []models.MarketTool
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan market tool: %w", err)
		}
		var t models.MarketTool
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decode market tool: %w", err)
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

func (s *Store) loadBudgets() ([]models.BudgetProposal, error) {
	rows, err := s.db.Query(
		`SELECT id, client_name, total_monthly, setup_fee, items, status FROM budgets ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.BudgetProposal
	for rows.Next() {
		var b models.BudgetProposal
		var items string
		if err := rows.Scan(&b.ID, &b.ClientName, &b.TotalMonthly, &b.SetupFee, &items, &b.Status); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if err := decodeJSON(items, &b.Items); err != nil {
			return nil, fmt.Errorf("budget %q items: %w", b.ID, err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// decodeJSON leaves dst nil for an empty array so records round-trip with
// their in-memory zero values.
func decodeJSON[T any](data string, dst *[]T) error {
	if data == "" || data == "[]" {
		*dst = nil
		return nil
	}
	return json.Unmarshal([]byte(data), dst)
}
