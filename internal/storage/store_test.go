package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/wagneradl/opsdesk/internal/models"
)

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "opsdesk-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(tempDir(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleSnapshot() models.Snapshot {
	return models.Snapshot{
		Tasks: []models.Task{
			{ID: "1", ProjectID: "p1", Title: "Implement JWT auth", Status: "in-progress", Priority: "high", Area: "backend", Assignee: "t1"},
			{ID: "2", ProjectID: "p1", Title: "Polish dark mode", Status: "backlog", Priority: "medium", Area: "design", Assignee: "t2"},
		},
		Meetings: []models.Meeting{
			{ID: "m1", Title: "Sprint Review", Time: "14:00", Date: "2026-10-15", Type: "client"},
			{ID: "m2", Title: "Daily", Time: "09:00", Date: "2023-10-26", Type: "internal", Attendees: []string{"t1"}},
		},
		Projects: []models.Project{
			{ID: "p1", Name: "Corporate Dashboard V2", Client: "Internal", Status: "development", Category: "development",
				Progress: 65, TeamIDs: []string{"t1", "t2"},
				Roadmap: []models.RoadmapStep{{Step: "Requirements", Status: "done", Date: "01/10"}}},
			{ID: "p2", Name: "Sneakers E-commerce", Client: "Shopify Clone", Status: "planning", Category: "development"},
		},
		Team: []models.TeamMember{
			{ID: "t1", Name: "Lucas Silva", Role: "Senior Full Stack", Status: "online", Skills: []string{"React", "Go"}, Workload: 85},
		},
		Tools: []models.MarketTool{
			{ID: "llm1", Name: "Gemini 3.0 Pro", Category: "api_ai", Price: 2.5, Currency: "USD",
				Specs: &models.ToolSpecs{ContextWindow: "5M+"}, Variants: []models.ToolVariant{{Name: "Input", Price: 2.5, Unit: "/1M tokens"}}},
			{ID: "vid3", Name: "Sora", Category: "video_gen", Price: 0, Currency: "USD"},
		},
		Budgets: []models.BudgetProposal{
			{ID: "b1", ClientName: "Acme", TotalMonthly: 10, Items: []models.BudgetItem{{ToolName: "Gemini", Cost: 10, Description: "LLM"}}, Status: "generated"},
		},
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	dir := tempDir(t)
	st, err := Open(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	if _, err := os.Stat(filepath.Join(dir, "nested", FileName)); err != nil {
		t.Errorf("Expected %s to exist: %v", FileName, err)
	}

	empty, err := st.Empty()
	if err != nil {
		t.Fatal(err)
	}
	if !empty {
		t.Error("fresh store should be empty")
	}
}

func TestSeedAndLoadRoundTrip(t *testing.T) {
	st := openStore(t)
	want := sampleSnapshot()

	if err := st.Seed(want); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	got, err := st.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Load mismatch (-want +got):\n%s", diff)
	}

	empty, _ := st.Empty()
	if empty {
		t.Error("seeded store should not be empty")
	}
}

func TestNewTasksLoadFirst(t *testing.T) {
	st := openStore(t)
	if err := st.Seed(sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	if err := st.SaveTask(models.Task{ID: "3", Title: "Setup Terraform", Status: "backlog", Priority: "high", Area: "devops"}); err != nil {
		t.Fatalf("SaveTask: %v", err)
	}

	snap, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(snap.Tasks))
	}
	if snap.Tasks[0].ID != "3" {
		t.Errorf("first task = %q, want newest task %q", snap.Tasks[0].ID, "3")
	}
}

func TestSaveProjectReplaces(t *testing.T) {
	st := openStore(t)
	if err := st.Seed(sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	p := sampleSnapshot().Projects[0]
	p.Progress = 80
	p.Status = "production"
	if err := st.SaveProject(p); err != nil {
		t.Fatalf("SaveProject: %v", err)
	}

	snap, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(snap.Projects))
	}
	// Replacement keeps the original position.
	if snap.Projects[0].ID != "p1" || snap.Projects[0].Progress != 80 || snap.Projects[0].Status != "production" {
		t.Errorf("project not replaced in place: %+v", snap.Projects[0])
	}
}

func TestSaveToolsReplacesCatalog(t *testing.T) {
	st := openStore(t)
	if err := st.Seed(sampleSnapshot()); err != nil {
		t.Fatal(err)
	}

	tools := []models.MarketTool{{ID: "dep1", Name: "Vercel Pro", Price: 20}}
	if err := st.SaveTools(tools); err != nil {
		t.Fatalf("SaveTools: %v", err)
	}

	snap, err := st.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Tools) != 1 || snap.Tools[0].ID != "dep1" {
		t.Errorf("catalog not replaced: %+v", snap.Tools)
	}
}

func TestInvalidStatusRejected(t *testing.T) {
	st := openStore(t)
	err := st.SaveTask(models.Task{ID: "x", Title: "bad", Status: "archived"})
	if err == nil {
		t.Error("Expected CHECK constraint error for unknown status")
	}
}
