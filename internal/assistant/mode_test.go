package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wagneradl/opsdesk/internal/models"
)

func TestContextDescribe(t *testing.T) {
	p := &models.Project{Name: "Corporate Dashboard V2", Status: "development"}
	team := make([]models.TeamMember, 3)

	assert.Equal(t, "Mode: GENERAL.", Context{}.Describe())
	assert.Equal(t, "Mode: GENERAL.\nProject: Corporate Dashboard V2 (development).\nTeam Available: 3 members.",
		Context{Mode: General, Project: p, Team: team}.Describe())
}

func TestContextToolSets(t *testing.T) {
	assert.Equal(t, []ToolName{CreateTask, ScheduleMeeting, CreateProject, AnalyzeCV}, Context{}.Tools())
	assert.False(t, Context{}.Grounded())
	assert.True(t, Context{Mode: Market}.Grounded())
}

func TestContextGreeting(t *testing.T) {
	p := &models.Project{Name: "CRM"}
	assert.Contains(t, Context{Mode: Market, Project: p}.Greeting(), "Marketing Agent")
	assert.Equal(t, "Agent connected to project: CRM. Ready to manage tasks and analyze files.", Context{Project: p}.Greeting())
	assert.Contains(t, Context{}.Greeting(), "Global Orchestrator")
}

func TestDecode(t *testing.T) {
	a, err := Decode("scheduleMeeting", map[string]any{"title": "Daily", "time": "09:00"})
	assert.NoError(t, err)
	assert.Equal(t, ScheduleMeetingArgs{Title: "Daily", Time: "09:00"}, a)

	_, err = Decode("deleteEverything", nil)
	assert.ErrorIs(t, err, ErrUnknownTool)

	_, err = Decode("generateBudget", map[string]any{"totalMonthly": "lots"})
	assert.Error(t, err)
}
