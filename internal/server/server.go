package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagneradl/opsdesk/internal/desk"
	"github.com/wagneradl/opsdesk/internal/session"
	"github.com/wagneradl/opsdesk/internal/tools"
)

// Version is reported to MCP clients.
const Version = "0.1.0"

// New creates a fully configured MCP server with all tools registered.
// Budgets exported through the server are written to exportDir.
func New(d *desk.Desk, exportDir string) *mcp.Server {
	sess := session.New()

	pt := &tools.ProjectTools{Desk: d, Session: sess}
	wt := &tools.WorkTools{Desk: d, Session: sess, ExportDir: exportDir}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "opsdesk",
		Version: Version,
	}, nil)

	// Project tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "listProjects",
		Description: "List projects with an optional status filter",
	}, pt.ListProjects)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "createProject",
		Description: "Create a project in planning status and make it the current project",
	}, pt.CreateProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "switchProject",
		Description: "Switch the current project; new tasks and meetings attach to it",
	}, pt.SwitchProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "getCurrentProject",
		Description: "Get the currently active project",
	}, pt.GetCurrentProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "getProject",
		Description: "Get a project with its tasks and team",
	}, pt.GetProject)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "updateProject",
		Description: "Change a project's status or description (defaults to the current project)",
	}, pt.UpdateProject)

	// Operations tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "createTask",
		Description: "Add a backlog task to the current project",
	}, wt.CreateTask)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "scheduleMeeting",
		Description: "Schedule a meeting; fails when the date and time slot is taken",
	}, wt.ScheduleMeeting)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyzeCV",
		Description: "Record a CV analysis and report which team members share the candidate's skills",
	}, wt.AnalyzeCV)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "listTasks",
		Description: "List tasks filtered by project, status or assignee",
	}, wt.ListTasks)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "listMeetings",
		Description: "List meetings, optionally on a single date",
	}, wt.ListMeetings)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "listTeam",
		Description: "List the team roster",
	}, wt.ListTeam)

	// Market tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "listMarketTools",
		Description: "List the market catalog with current prices, optionally one category",
	}, wt.ListMarketTools)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "updateMarketPrices",
		Description: "Refresh market prices and return the updated catalog",
	}, wt.UpdateMarketPrices)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "generateBudget",
		Description: "Record a monthly budget proposal for a client",
	}, wt.GenerateBudget)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "listBudgets",
		Description: "List recorded budget proposals",
	}, wt.ListBudgets)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "exportBudget",
		Description: "Write a budget proposal as a plain-text file",
	}, wt.ExportBudget)

	return srv
}
