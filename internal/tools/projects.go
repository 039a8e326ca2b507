package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagneradl/opsdesk/internal/assistant"
	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/session"
)

// ProjectTools holds references needed by project tool handlers.
type ProjectTools struct {
	Desk    *desk.Desk
	Session *session.Session
}

// --- Input types ---

type ListProjectsInput struct {
	Status string `json:"status,omitempty" jsonschema:"Filter by status: planning, development, production, maintenance, completed or all"`
}

type SwitchProjectInput struct {
	Project string `json:"project" jsonschema:"Id or name of the project to work in"`
}

type ProjectDetailInput struct {
	Project string `json:"project,omitempty" jsonschema:"Id or name of the project, defaults to the current project"`
}

type UpdateProjectInput struct {
	Project     string `json:"project,omitempty" jsonschema:"Id or name of the project, defaults to the current project"`
	Status      string `json:"status,omitempty" jsonschema:"New status: planning, development, production, maintenance or completed"`
	Description string `json:"description,omitempty" jsonschema:"New project description"`
}

// ProjectDetail is a project with its tasks and resolved team.
type ProjectDetail struct {
	models.Project
	Tasks []models.Task       `json:"tasks"`
	Team  []models.TeamMember `json:"team"`
}

// --- Handlers ---

func (t *ProjectTools) ListProjects(_ context.Context, _ *mcp.CallToolRequest, input ListProjectsInput) (*mcp.CallToolResult, any, error) {
	projects := t.Desk.Workspace().Projects()
	if input.Status != "" && input.Status != "all" {
		filtered := []models.Project{}
		for _, p := range projects {
			if p.Status == input.Status {
				filtered = append(filtered, p)
			}
		}
		projects = filtered
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return toolJSON(projects)
}

func (t *ProjectTools) CreateProject(_ context.Context, _ *mcp.CallToolRequest, input assistant.CreateProjectArgs) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("Project name is required"), nil, nil
	}

	ws := t.Desk.Workspace()
	proj, err := ws.AddProject(desk.ProjectFromArgs(input, ws.Today()))
	if err != nil {
		return toolError("Failed to create project: %v", err), nil, nil
	}

	// Auto-switch to the new project
	if _, err := t.Session.SwitchProject(ws, proj.ID); err != nil {
		return toolError("Project created but failed to switch: %v", err), nil, nil
	}

	return toolJSON(proj)
}

func (t *ProjectTools) SwitchProject(_ context.Context, _ *mcp.CallToolRequest, input SwitchProjectInput) (*mcp.CallToolResult, any, error) {
	if input.Project == "" {
		return toolError("Project id or name is required"), nil, nil
	}

	proj, err := t.Session.SwitchProject(t.Desk.Workspace(), input.Project)
	if err != nil {
		return toolError("Failed to switch project: %v", err), nil, nil
	}

	return toolJSON(proj)
}

func (t *ProjectTools) GetCurrentProject(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	id, name, ok := t.Session.GetCurrent()
	if !ok {
		return toolText("No project is currently active. Use switchProject to select one."), nil, nil
	}

	proj, found := t.Desk.Workspace().Project(id)
	if !found {
		return toolText(fmt.Sprintf("Active project: %s (details unavailable)", name)), nil, nil
	}

	return toolJSON(proj)
}

func (t *ProjectTools) GetProject(_ context.Context, _ *mcp.CallToolRequest, input ProjectDetailInput) (*mcp.CallToolResult, any, error) {
	ref := input.Project
	if ref == "" {
		ref = t.Session.ProjectID()
	}
	if ref == "" {
		return toolError("No project given and none is active"), nil, nil
	}

	ws := t.Desk.Workspace()
	proj, err := session.Find(ws, ref)
	if err != nil {
		return toolError("Failed to find project: %v", err), nil, nil
	}

	detail := ProjectDetail{Project: proj, Tasks: ws.ProjectTasks(proj.ID), Team: []models.TeamMember{}}
	if detail.Tasks == nil {
		detail.Tasks = []models.Task{}
	}
	for _, id := range proj.TeamIDs {
		if m, ok := ws.Member(id); ok {
			detail.Team = append(detail.Team, m)
		}
	}
	return toolJSON(detail)
}

func (t *ProjectTools) UpdateProject(_ context.Context, _ *mcp.CallToolRequest, input UpdateProjectInput) (*mcp.CallToolResult, any, error) {
	if input.Status == "" && input.Description == "" {
		return toolError("Nothing to update: give a status or a description"), nil, nil
	}
	ref := input.Project
	if ref == "" {
		ref = t.Session.ProjectID()
	}
	if ref == "" {
		return toolError("No project given and none is active"), nil, nil
	}

	proj, err := session.Find(t.Desk.Workspace(), ref)
	if err != nil {
		return toolError("Failed to find project: %v", err), nil, nil
	}

	proj, err = t.Desk.UpdateProject(proj.ID, input.Description, input.Status)
	if err != nil {
		return toolError("Failed to update project: %v", err), nil, nil
	}

	// Completing the current project clears the session
	if proj.Status == models.ProjectCompleted && t.Session.ProjectID() == proj.ID {
		t.Session.Clear()
	}

	return toolJSON(proj)
}

// --- Helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
