// Package session tracks the project an MCP client is working in. Tasks and
// meetings created over MCP attach to that project.
package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// Projects is the project lookup a session resolves names against.
type Projects interface {
	Projects() []models.Project
}

// Session holds the current project context for an MCP session.
type Session struct {
	mu                 sync.Mutex
	currentProjectID   string
	currentProjectName string
}

// New creates a new empty session with no active project.
func New() *Session {
	return &Session{}
}

// SwitchProject makes the project matching ref current. ref is a project id
// or a case-insensitive project name.
func (s *Session) SwitchProject(ps Projects, ref string) (models.Project, error) {
	proj, err := Find(ps, ref)
	if err != nil {
		return models.Project{}, err
	}
	if proj.Status == models.ProjectCompleted {
		return models.Project{}, fmt.Errorf("project %q is completed, new work cannot be attached to it", proj.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentProjectID = proj.ID
	s.currentProjectName = proj.Name
	return proj, nil
}

// GetCurrent returns info about the current project, or ok=false if none is
// active.
func (s *Session) GetCurrent() (id, name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentProjectID == "" {
		return "", "", false
	}
	return s.currentProjectID, s.currentProjectName, true
}

// ProjectID returns the current project id, or "" outside any project.
func (s *Session) ProjectID() string {
	id, _, _ := s.GetCurrent()
	return id
}

// Clear resets session state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentProjectID = ""
	s.currentProjectName = ""
}

// Find resolves a project by id first, then by name ignoring case.
func Find(ps Projects, ref string) (models.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Project{}, fmt.Errorf("project reference is required")
	}
	projects := ps.Projects()
	for _, p := range projects {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, ref) {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("project %q: %w", ref, workspace.ErrNotFound)
}
