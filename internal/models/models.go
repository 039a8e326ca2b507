package models

// Task statuses, in board column order.
const (
	TaskBacklog    = "backlog"
	TaskInProgress = "in-progress"
	TaskReview     = "review"
	TaskDone       = "done"
)

// TaskStatuses lists every task status in board column order.
var TaskStatuses = []string{TaskBacklog, TaskInProgress, TaskReview, TaskDone}

const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Areas a task can be tagged with.
var Areas = []string{"frontend", "backend", "devops", "mobile", "design", "qa", "general", "data"}

// Task represents a single work item on the board.
type Task struct {
	ID             string  `json:"id"`
	ProjectID      string  `json:"project_id,omitempty"`
	Title          string  `json:"title"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Area           string  `json:"area"`
	Assignee       string  `json:"assignee"`
	Description    string  `json:"description,omitempty"`
	DueDate        string  `json:"due_date,omitempty"`
	EstimatedHours float64 `json:"estimated_hours,omitempty"`
}

const (
	MeetingClient   = "client"
	MeetingInternal = "internal"
	MeetingReview   = "review"
)

// Meeting is a calendar entry. Date is yyyy-mm-dd and Time is HH:MM, both
// compared as plain strings.
type Meeting struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id,omitempty"`
	Title     string   `json:"title"`
	Time      string   `json:"time"`
	Date      string   `json:"date"`
	Type      string   `json:"type"`
	Attendees []string `json:"attendees,omitempty"`
}

// Project statuses.
const (
	ProjectPlanning    = "planning"
	ProjectDevelopment = "development"
	ProjectProduction  = "production"
	ProjectMaintenance = "maintenance"
	ProjectCompleted   = "completed"
)

// ProjectStatuses lists every project status in lifecycle order.
var ProjectStatuses = []string{ProjectPlanning, ProjectDevelopment, ProjectProduction, ProjectMaintenance, ProjectCompleted}

// Project categories.
const (
	CategoryProduction  = "production"
	CategoryDevelopment = "development"
	CategoryTools       = "tools"
	CategoryMaintenance = "maintenance"
)

// RoadmapStep is one milestone of a project roadmap.
type RoadmapStep struct {
	Step   string `json:"step"`
	Status string `json:"status"` // done, current or pending
	Date   string `json:"date,omitempty"`
}

// Project represents a client engagement.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Client      string        `json:"client"`
	Description string        `json:"description"`
	Status      string        `json:"status"`
	Category    string        `json:"category"`
	StartDate   string        `json:"start_date"`
	Deadline    string        `json:"deadline"`
	Progress    int           `json:"progress"`
	TeamIDs     []string      `json:"team_ids"`
	TechStack   []string      `json:"tech_stack,omitempty"`
	Roadmap     []RoadmapStep `json:"roadmap,omitempty"`
}

// TeamMember is a person on the agency roster.
type TeamMember struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Avatar     string   `json:"avatar,omitempty"`
	Status     string   `json:"status"` // online, busy or offline
	Skills     []string `json:"skills"`
	Experience string   `json:"experience,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	Schedule   string   `json:"schedule,omitempty"`
	Workload   int      `json:"workload,omitempty"`
}

// Market catalog categories.
const (
	MarketAPIAI      = "api_ai"
	MarketCloudInfra = "cloud_infra"
	MarketDeploy     = "deploy"
	MarketRAGTools   = "rag_tools"
	MarketImageGen   = "image_gen"
	MarketVideoGen   = "video_gen"
	MarketPayments   = "payment_gateways"
)

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// ToolVariant is one priced option of a market tool (input tokens, seats...).
type ToolVariant struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
}

// ToolSpecs holds descriptive technical attributes.
type ToolSpecs struct {
	ContextWindow string   `json:"context_window,omitempty"`
	MaxOutput     string   `json:"max_output,omitempty"`
	Modalities    []string `json:"modalities,omitempty"`
	Latency       string   `json:"latency,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty"`
}

// MarketTool is an entry of the price comparison catalog.
type MarketTool struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Price       float64       `json:"price"`
	Currency    string        `json:"currency"`
	Unit        string        `json:"unit"`
	Trend       string        `json:"trend"`
	LastUpdated string        `json:"last_updated"`
	Provider    string        `json:"provider,omitempty"`
	Description string        `json:"description,omitempty"`
	Website     string        `json:"website,omitempty"`
	DocsURL     string        `json:"docs_url,omitempty"`
	Specs       *ToolSpecs    `json:"specs,omitempty"`
	Variants    []ToolVariant `json:"variants,omitempty"`
}

const (
	BudgetDraft     = "draft"
	BudgetGenerated = "generated"
)

// BudgetItem is one monthly line of a budget proposal.
type BudgetItem struct {
	ToolName    string  `json:"toolName" jsonschema:"Name of the tool or service"`
	Cost        float64 `json:"cost" jsonschema:"Monthly cost in USD"`
	Description string  `json:"description" jsonschema:"What the item covers"`
}

// BudgetProposal is a priced proposal for a client.
type BudgetProposal struct {
	ID           string       `json:"id"`
	ClientName   string       `json:"client_name"`
	TotalMonthly float64      `json:"total_monthly"`
	SetupFee     float64      `json:"setup_fee"`
	Items        []BudgetItem `json:"items"`
	Status       string       `json:"status"`
}

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one entry of a chat transcript.
type ChatMessage struct {
	ID          string   `json:"id"`
	Role        string   `json:"role"`
	Text        string   `json:"text"`
	Attachments []string `json:"attachments,omitempty"`
}

// Snapshot is the full set of records owned by a workspace.
type Snapshot struct {
	Tasks    []Task           `json:"tasks"`
	Meetings []Meeting        `json:"meetings"`
	Projects []Project        `json:"projects"`
	Team     []TeamMember     `json:"team"`
	Tools    []MarketTool     `json:"tools"`
	Budgets  []BudgetProposal `json:"budgets"`
}
