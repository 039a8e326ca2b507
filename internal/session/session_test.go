package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

type projectList []models.Project

func (l projectList) Projects() []models.Project { return l }

var projects = projectList{
	{ID: "p1", Name: "Corporate Dashboard V2", Status: models.ProjectDevelopment},
	{ID: "p2", Name: "Sneakers E-commerce", Status: models.ProjectPlanning},
	{ID: "p9", Name: "Legacy Portal", Status: models.ProjectCompleted},
}

func TestNewSessionHasNoProject(t *testing.T) {
	s := New()
	if _, _, ok := s.GetCurrent(); ok {
		t.Error("new session should have no active project")
	}
	if id := s.ProjectID(); id != "" {
		t.Errorf("ProjectID = %q, want empty", id)
	}
}

func TestSwitchProjectByIDAndName(t *testing.T) {
	s := New()

	p, err := s.SwitchProject(projects, "p2")
	if err != nil {
		t.Fatalf("SwitchProject(p2): %v", err)
	}
	if p.Name != "Sneakers E-commerce" {
		t.Errorf("switched to %q", p.Name)
	}

	if _, err := s.SwitchProject(projects, "corporate dashboard v2"); err != nil {
		t.Fatalf("SwitchProject by name: %v", err)
	}
	id, name, ok := s.GetCurrent()
	if !ok || id != "p1" || name != "Corporate Dashboard V2" {
		t.Errorf("GetCurrent = %q, %q, %v", id, name, ok)
	}
}

func TestSwitchProjectUnknownKeepsCurrent(t *testing.T) {
	s := New()
	if _, err := s.SwitchProject(projects, "p1"); err != nil {
		t.Fatal(err)
	}

	_, err := s.SwitchProject(projects, "nope")
	if !errors.Is(err, workspace.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if s.ProjectID() != "p1" {
		t.Errorf("current project changed to %q after a failed switch", s.ProjectID())
	}
}

func TestSwitchProjectRejectsCompleted(t *testing.T) {
	s := New()
	_, err := s.SwitchProject(projects, "p9")
	if err == nil || !strings.Contains(err.Error(), "completed") {
		t.Errorf("err = %v, want completed project rejection", err)
	}
}

func TestClear(t *testing.T) {
	s := New()
	if _, err := s.SwitchProject(projects, "p1"); err != nil {
		t.Fatal(err)
	}
	s.Clear()
	if _, _, ok := s.GetCurrent(); ok {
		t.Error("Clear should reset the current project")
	}
}

func TestFindRequiresReference(t *testing.T) {
	if _, err := Find(projects, "  "); err == nil {
		t.Error("expected error for blank reference")
	}
}
