package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/wagneradl/opsdesk/internal/models"
)

// FileName is the database file created inside the data directory.
const FileName = "opsdesk.db"

// Store persists workspace records in a single SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// Open opens (or creates) opsdesk.db inside dataDir and runs migrations.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, FileName)
	db, err := sql.Open("sqlite3", "file:"+dbPath+dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	return &Store{db: db, dataDir: dataDir}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the base data directory.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Empty reports whether no project, task or team member has been stored yet.
func (s *Store) Empty() (bool, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT (SELECT COUNT(*) FROM projects) + (SELECT COUNT(*) FROM tasks) + (SELECT COUNT(*) FROM team_members)`,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count records: %w", err)
	}
	return n == 0, nil
}

// Seed writes a full snapshot in one transaction. Tasks and projects are
// inserted oldest-last so that Load returns them in snapshot order.
func (s *Store) Seed(snap models.Snapshot) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range slices.Backward(snap.Tasks) {
		if err := saveTask(tx, t); err != nil {
			return err
		}
	}
	for _, p := range slices.Backward(snap.Projects) {
		if err := saveProject(tx, p); err != nil {
			return err
		}
	}
	for _, m := range snap.Meetings {
		if err := saveMeeting(tx, m); err != nil {
			return err
		}
	}
	for _, m := range snap.Team {
		if err := saveMember(tx, m); err != nil {
			return err
		}
	}
	for _, b := range snap.Budgets {
		if err := saveBudget(tx, b); err != nil {
			return err
		}
	}
	if err := replaceTools(tx, snap.Tools); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// SaveTask inserts or replaces a task.
func (s *Store) SaveTask(t models.Task) error { return saveTask(s.db, t) }

// SaveMeeting inserts or replaces a meeting.
func (s *Store) SaveMeeting(m models.Meeting) error { return saveMeeting(s.db, m) }

// SaveProject inserts or replaces a project.
func (s *Store) SaveProject(p models.Project) error { return saveProject(s.db, p) }

// SaveMember inserts or replaces a team member.
func (s *Store) SaveMember(m models.TeamMember) error { return saveMember(s.db, m) }

// SaveBudget inserts or replaces a budget proposal.
func (s *Store) SaveBudget(b models.BudgetProposal) error { return saveBudget(s.db, b) }

// SaveTools replaces the whole market catalog.
func (s *Store) SaveTools(tools []models.MarketTool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := replaceTools(tx, tools); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func saveTask(db execer, t models.Task) error {
	_, err := db.Exec(
		`INSERT INTO tasks (id, project_id, title, status, priority, area, assignee, description, due_date, estimated_hours)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   project_id = excluded.project_id, title = excluded.title, status = excluded.status,
		   priority = excluded.priority, area = excluded.area, assignee = excluded.assignee,
		   description = excluded.description, due_date = excluded.due_date,
		   estimated_hours = excluded.estimated_hours, updated_at = datetime('now')`,
		t.ID, t.ProjectID, t.Title, t.Status, t.Priority, t.Area, t.Assignee, t.Description, t.DueDate, t.EstimatedHours,
	)
	if err != nil {
		return fmt.Errorf("save task %q: %w", t.ID, err)
	}
	return nil
}

func saveMeeting(db execer, m models.Meeting) error {
	attendees, err := encodeJSON(m.Attendees)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO meetings (id, project_id, title, time, date, type, attendees)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   project_id = excluded.project_id, title = excluded.title, time = excluded.time,
		   date = excluded.date, type = excluded.type, attendees = excluded.attendees`,
		m.ID, m.ProjectID, m.Title, m.Time, m.Date, m.Type, attendees,
	)
	if err != nil {
		return fmt.Errorf("save meeting %q: %w", m.ID, err)
	}
	return nil
}

func saveProject(db execer, p models.Project) error {
	teamIDs, err := encodeJSON(p.TeamIDs)
	if err != nil {
		return err
	}
	techStack, err := encodeJSON(p.TechStack)
	if err != nil {
		return err
	}
	roadmap, err := encodeJSON(p.Roadmap)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO projects (id, name, client, description, status, category, start_date, deadline, progress, team_ids, tech_stack, roadmap)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, client = excluded.client, description = excluded.description,
		   status = excluded.status, category = excluded.category, start_date = excluded.start_date,
		   deadline = excluded.deadline, progress = excluded.progress, team_ids = excluded.team_ids,
		   tech_stack = excluded.tech_stack, roadmap = excluded.roadmap, updated_at = datetime('now')`,
		p.ID, p.Name, p.Client, p.Description, p.Status, p.Category, p.StartDate, p.Deadline, p.Progress,
		teamIDs, techStack, roadmap,
	)
	if err != nil {
		return fmt.Errorf("save project %q: %w", p.ID, err)
	}
	return nil
}

func saveMember(db execer, m models.TeamMember) error {
	skills, err := encodeJSON(m.Skills)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO team_members (id, name, role, avatar, status, skills, experience, bio, schedule, workload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name, role = excluded.role, avatar = excluded.avatar, status = excluded.status,
		   skills = excluded.skills, experience = excluded.experience, bio = excluded.bio,
		   schedule = excluded.schedule, workload = excluded.workload`,
		m.ID, m.Name, m.Role, m.Avatar, m.Status, skills, m.Experience, m.Bio, m.Schedule, m.Workload,
	)
	if err != nil {
		return fmt.Errorf("save member %q: %w", m.ID, err)
	}
	return nil
}

func saveBudget(db execer, b models.BudgetProposal) error {
	items, err := encodeJSON(b.Items)
	if err != nil {
		return err
	}
	_, err = db.Exec(
		`INSERT INTO budgets (id, client_name, total_monthly, setup_fee, items, status)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   client_name = excluded.client_name, total_monthly = excluded.total_monthly,
		   setup_fee = excluded.setup_fee, items = excluded.items, status = excluded.status`,
		b.ID, b.ClientName, b.TotalMonthly, b.SetupFee, items, b.Status,
	)
	if err != nil {
		return fmt.Errorf("save budget %q: %w", b.ID, err)
	}
	return nil
}

func replaceTools(db execer, tools []models.MarketTool) error {
	if _, err := db.Exec(`DELETE FROM market_tools`); err != nil {
		return fmt.Errorf("clear market tools: %w", err)
	}
	for i, t := range tools {
		data, err := encodeJSON(t)
		if err != nil {
			return err
		}
		if _, err := db.Exec(`INSERT INTO market_tools (position, id, data) VALUES (?, ?, ?)`, i, t.ID, data); err != nil {
			return fmt.Errorf("insert market tool %q: %w", t.ID, err)
		}
	}
	return nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	if string(data) == "null" {
		return "[]", nil
	}
	return string(data), nil
}
