package tools

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagneradl/opsdesk/internal/assistant"
	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/market"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/session"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// WorkTools holds references needed by the task, meeting, team and market
// tool handlers. Tasks and meetings attach to the session's current project.
type WorkTools struct {
	Desk    *desk.Desk
	Session *session.Session
	// ExportDir receives exported budget files.
	ExportDir string
}

// --- Input types ---

type ListTasksInput struct {
	Project  string `json:"project,omitempty" jsonschema:"Project id or name, defaults to every project"`
	Status   string `json:"status,omitempty" jsonschema:"backlog, in-progress, review or done"`
	Assignee string `json:"assignee,omitempty" jsonschema:"Team member id or name"`
}

type ListMeetingsInput struct {
	Date string `json:"date,omitempty" jsonschema:"Only meetings on this date (yyyy-mm-dd)"`
}

type ListMarketToolsInput struct {
	Category string `json:"category,omitempty" jsonschema:"api_ai, cloud_infra, deploy, rag_tools, image_gen, video_gen or payment_gateways"`
}

type ExportBudgetInput struct {
	ID string `json:"id,omitempty" jsonschema:"Budget id, defaults to the most recent proposal"`
}

// CVAnalysis is the structured result of analyzeCV.
type CVAnalysis struct {
	assistant.AnalyzeCVArgs
	// Overlap lists team members sharing at least one skill with the
	// candidate.
	Overlap []string `json:"teamOverlap"`
}

// --- Handlers ---

func (t *WorkTools) CreateTask(_ context.Context, _ *mcp.CallToolRequest, input assistant.CreateTaskArgs) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Task title is required"), nil, nil
	}

	task, err := t.Desk.Workspace().AddTask(desk.TaskFromArgs(input, t.Session.ProjectID()))
	if err != nil {
		return toolError("Failed to create task: %v", err), nil, nil
	}
	return toolJSON(task)
}

func (t *WorkTools) ScheduleMeeting(_ context.Context, _ *mcp.CallToolRequest, input assistant.ScheduleMeetingArgs) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return toolError("Meeting title is required"), nil, nil
	}

	m, err := t.Desk.ScheduleMeeting(models.Meeting{
		ProjectID: t.Session.ProjectID(),
		Title:     input.Title,
		Time:      input.Time,
		Date:      input.Date,
		Type:      models.MeetingInternal,
	})
	if err != nil {
		var conflict *workspace.ConflictError
		if errors.As(err, &conflict) {
			return toolError("%s", desk.ConflictNotice(conflict)), nil, nil
		}
		return toolError("Failed to schedule meeting: %v", err), nil, nil
	}
	return toolJSON(m)
}

func (t *WorkTools) AnalyzeCV(_ context.Context, _ *mcp.CallToolRequest, input assistant.AnalyzeCVArgs) (*mcp.CallToolResult, any, error) {
	if input.CandidateName == "" {
		return toolError("Candidate name is required"), nil, nil
	}

	out := CVAnalysis{AnalyzeCVArgs: input, Overlap: []string{}}
	for _, m := range t.Desk.Workspace().Team() {
		for _, s := range input.ExtractedSkills {
			if slices.ContainsFunc(m.Skills, func(x string) bool { return strings.EqualFold(x, s) }) {
				out.Overlap = append(out.Overlap, m.Name)
				break
			}
		}
	}
	return toolJSON(out)
}

func (t *WorkTools) GenerateBudget(_ context.Context, _ *mcp.CallToolRequest, input assistant.GenerateBudgetArgs) (*mcp.CallToolResult, any, error) {
	if input.ClientName == "" {
		return toolError("Client name is required"), nil, nil
	}

	b, err := t.Desk.Workspace().RecordBudget(desk.BudgetFromArgs(input))
	if err != nil {
		return toolError("Failed to record budget: %v", err), nil, nil
	}
	return toolJSON(b)
}

func (t *WorkTools) UpdateMarketPrices(ctx context.Context, _ *mcp.CallToolRequest, _ assistant.UpdateMarketPricesArgs) (*mcp.CallToolResult, any, error) {
	if err := t.Desk.RefreshPrices(ctx); err != nil {
		if errors.Is(err, market.ErrRunning) {
			return toolError("A price refresh is already running"), nil, nil
		}
		return toolError("Failed to refresh prices: %v", err), nil, nil
	}
	return toolJSON(t.Desk.Workspace().Tools())
}

func (t *WorkTools) ExportBudget(_ context.Context, _ *mcp.CallToolRequest, input ExportBudgetInput) (*mcp.CallToolResult, any, error) {
	id := input.ID
	if id == "" {
		budgets := t.Desk.Workspace().Budgets()
		if len(budgets) == 0 {
			return toolError("No budget has been generated yet"), nil, nil
		}
		id = budgets[len(budgets)-1].ID
	}

	path, err := t.Desk.ExportBudget(t.ExportDir, id)
	if err != nil {
		return toolError("Failed to export budget: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Budget exported to %s", path)), nil, nil
}

func (t *WorkTools) ListTasks(_ context.Context, _ *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, any, error) {
	ws := t.Desk.Workspace()
	tasks := ws.Tasks()
	if input.Project != "" {
		proj, err := session.Find(ws, input.Project)
		if err != nil {
			return toolError("Failed to find project: %v", err), nil, nil
		}
		tasks = ws.ProjectTasks(proj.ID)
	}

	out := []models.Task{}
	for _, task := range tasks {
		if input.Status != "" && task.Status != input.Status {
			continue
		}
		if input.Assignee != "" && task.Assignee != input.Assignee && ws.AssigneeName(task.Assignee) != input.Assignee {
			continue
		}
		out = append(out, task)
	}
	return toolJSON(out)
}

func (t *WorkTools) ListMeetings(_ context.Context, _ *mcp.CallToolRequest, input ListMeetingsInput) (*mcp.CallToolResult, any, error) {
	ws := t.Desk.Workspace()
	meetings := ws.Meetings()
	if input.Date != "" {
		meetings = ws.MeetingsOn(input.Date)
	}
	if meetings == nil {
		meetings = []models.Meeting{}
	}
	return toolJSON(meetings)
}

func (t *WorkTools) ListTeam(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	team := t.Desk.Workspace().Team()
	if team == nil {
		team = []models.TeamMember{}
	}
	return toolJSON(team)
}

func (t *WorkTools) ListMarketTools(_ context.Context, _ *mcp.CallToolRequest, input ListMarketToolsInput) (*mcp.CallToolResult, any, error) {
	tools := t.Desk.Workspace().Tools()
	if input.Category != "" {
		tools = market.InCategory(tools, input.Category)
	}
	if tools == nil {
		tools = []models.MarketTool{}
	}
	return toolJSON(tools)
}

func (t *WorkTools) ListBudgets(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	budgets := t.Desk.Workspace().Budgets()
	if budgets == nil {
		budgets = []models.BudgetProposal{}
	}
	return toolJSON(budgets)
}
