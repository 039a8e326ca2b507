package assistant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wagneradl/opsdesk/internal/models"
)

// ToolName identifies a declared tool.
type ToolName string

const (
	CreateTask         ToolName = "createTask"
	ScheduleMeeting    ToolName = "scheduleMeeting"
	CreateProject      ToolName = "createProject"
	AnalyzeCV          ToolName = "analyzeCV"
	GenerateBudget     ToolName = "generateBudget"
	UpdateMarketPrices ToolName = "updateMarketPrices"
)

// ErrUnknownTool is returned by Decode for a name outside the declared set.
var ErrUnknownTool = errors.New("unknown tool")

// Action is a decoded tool call. The set of implementations is closed.
type Action interface {
	Tool() ToolName
	action()
}

type CreateTaskArgs struct {
	Title    string `json:"title" jsonschema:"Title of the task"`
	Area     string `json:"area,omitempty" jsonschema:"Area: frontend, backend, design, devops, mobile, qa"`
	Priority string `json:"priority,omitempty" jsonschema:"high, medium or low"`
	Assignee string `json:"assignee,omitempty" jsonschema:"Name of the team member"`
}

type ScheduleMeetingArgs struct {
	Title string `json:"title" jsonschema:"Meeting title"`
	Time  string `json:"time,omitempty" jsonschema:"Start time as HH:MM, defaults to 09:00"`
	Date  string `json:"date,omitempty" jsonschema:"Date as yyyy-mm-dd, defaults to today"`
}

type CreateProjectArgs struct {
	Name        string `json:"name" jsonschema:"Project internal name"`
	Client      string `json:"client" jsonschema:"Client name"`
	Category    string `json:"category" jsonschema:"production, development, tools or maintenance"`
	Description string `json:"description,omitempty" jsonschema:"Short description"`
}

type AnalyzeCVArgs struct {
	CandidateName     string   `json:"candidateName" jsonschema:"Candidate full name"`
	ExtractedSkills   []string `json:"extractedSkills,omitempty" jsonschema:"Skills found in the CV"`
	SuggestedRole     string   `json:"suggestedRole" jsonschema:"Role the candidate fits best"`
	ExperienceSummary string   `json:"experienceSummary,omitempty" jsonschema:"One paragraph experience summary"`
}

type GenerateBudgetArgs struct {
	ClientName   string              `json:"clientName" jsonschema:"Client the proposal is for"`
	Items        []models.BudgetItem `json:"items" jsonschema:"Monthly line items"`
	SetupFee     float64             `json:"setupFee,omitempty" jsonschema:"One-off setup fee in USD"`
	TotalMonthly float64             `json:"totalMonthly" jsonschema:"Total monthly cost in USD"`
}

type UpdateMarketPricesArgs struct {
	Confirm bool `json:"confirm,omitempty" jsonschema:"Confirm the refresh"`
}

func (CreateTaskArgs) Tool() ToolName         { return CreateTask }
func (ScheduleMeetingArgs) Tool() ToolName    { return ScheduleMeeting }
func (CreateProjectArgs) Tool() ToolName      { return CreateProject }
func (AnalyzeCVArgs) Tool() ToolName          { return AnalyzeCV }
func (GenerateBudgetArgs) Tool() ToolName     { return GenerateBudget }
func (UpdateMarketPricesArgs) Tool() ToolName { return UpdateMarketPrices }

func (CreateTaskArgs) action()         {}
func (ScheduleMeetingArgs) action()    {}
func (CreateProjectArgs) action()      {}
func (AnalyzeCVArgs) action()          {}
func (GenerateBudgetArgs) action()     {}
func (UpdateMarketPricesArgs) action() {}

// Decode converts a model tool call into its typed action. Arguments are
// not validated beyond their JSON shape.
func Decode(name string, args map[string]any) (Action, error) {
	var a Action
	var err error
	switch ToolName(name) {
	case CreateTask:
		a, err = decodeArgs[CreateTaskArgs](args)
	case ScheduleMeeting:
		a, err = decodeArgs[ScheduleMeetingArgs](args)
	case CreateProject:
		a, err = decodeArgs[CreateProjectArgs](args)
	case AnalyzeCV:
		a, err = decodeArgs[AnalyzeCVArgs](args)
	case GenerateBudget:
		a, err = decodeArgs[GenerateBudgetArgs](args)
	case UpdateMarketPrices:
		a, err = decodeArgs[UpdateMarketPricesArgs](args)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s arguments: %w", name, err)
	}
	return a, nil
}

func decodeArgs[T Action](args map[string]any) (T, error) {
	var v T
	data, err := json.Marshal(args)
	if err != nil {
		return v, err
	}
	err = json.Unmarshal(data, &v)
	return v, err
}

// Handlers are the local actions bound to tool calls. A nil handler makes
// the tool unavailable, except analyzeCV which only contributes text. The
// returned string, when not empty, is shown as a separate assistant message.
type Handlers struct {
	CreateTask         func(CreateTaskArgs) string
	ScheduleMeeting    func(ScheduleMeetingArgs) string
	CreateProject      func(CreateProjectArgs) string
	AnalyzeCV          func(AnalyzeCVArgs) string
	GenerateBudget     func(GenerateBudgetArgs) string
	UpdateMarketPrices func(UpdateMarketPricesArgs) string
}

// outcome is the result of running one action.
type outcome struct {
	ran      bool
	fragment string // appended to the reply text
	ack      string // reported back to the model
	notice   string
}

const unavailableAck = "Tool unavailable"

func (h Handlers) run(a Action) outcome {
	switch a := a.(type) {
	case CreateTaskArgs:
		if h.CreateTask == nil {
			break
		}
		return outcome{true, fmt.Sprintf("[Task Created: %s] ", a.Title), "Task Created", h.CreateTask(a)}
	case ScheduleMeetingArgs:
		if h.ScheduleMeeting == nil {
			break
		}
		return outcome{true, fmt.Sprintf("[Meeting Set: %s] ", a.Title), "Meeting Scheduled", h.ScheduleMeeting(a)}
	case CreateProjectArgs:
		if h.CreateProject == nil {
			break
		}
		return outcome{true, fmt.Sprintf("[Project Initialized: %s] ", a.Name), "Project Initialized", h.CreateProject(a)}
	case AnalyzeCVArgs:
		var notice string
		if h.AnalyzeCV != nil {
			notice = h.AnalyzeCV(a)
		}
		frag := fmt.Sprintf("[CV Analyzed: %s]\nSkills: %s", a.CandidateName, strings.Join(a.ExtractedSkills, ", "))
		return outcome{true, frag, "CV Parsed", notice}
	case GenerateBudgetArgs:
		if h.GenerateBudget == nil {
			break
		}
		frag := fmt.Sprintf("[Budget Generated for %s: Monthly Total $%s] ", a.ClientName, strconv.FormatFloat(a.TotalMonthly, 'f', -1, 64))
		return outcome{true, frag, "Budget Generated", h.GenerateBudget(a)}
	case UpdateMarketPricesArgs:
		if h.UpdateMarketPrices == nil {
			break
		}
		return outcome{true, "[Deep Search: Prices Updated via Grounding] ", "Prices Updated", h.UpdateMarketPrices(a)}
	}
	return outcome{ack: unavailableAck}
}
