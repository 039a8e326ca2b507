// Package assistant turns chat input into model replies and local actions.
// A Session forwards text to a Backend, runs the tool calls the model asks
// for through caller-supplied Handlers and composes the text shown to the
// user. A Chat owns the transcript built on top of a Session.
package assistant

import (
	"fmt"
	"strings"

	"github.com/wagneradl/opsdesk/internal/models"
)

// Mode selects the instructions and tool set of a conversation.
type Mode string

const (
	General Mode = "general"
	Market  Mode = "market"
)

// Context scopes a conversation. Changing it starts a new conversation.
type Context struct {
	Mode    Mode
	Project *models.Project
	// Team is optional. When set, its size is shared with the model.
	Team []models.TeamMember
}

func (c Context) mode() Mode {
	if c.Mode == "" {
		return General
	}
	return c.Mode
}

// Describe renders the context block appended to the system instruction.
func (c Context) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mode: %s.", strings.ToUpper(string(c.mode())))
	if c.Project != nil {
		fmt.Fprintf(&b, "\nProject: %s (%s).", c.Project.Name, c.Project.Status)
	}
	if c.Team != nil {
		fmt.Fprintf(&b, "\nTeam Available: %d members.", len(c.Team))
	}
	return b.String()
}

// Instruction is the full system instruction for the context.
func (c Context) Instruction() string {
	base := generalInstruction
	if c.mode() == Market {
		base = marketInstruction
	}
	return base + "\n\nCONTEXT:\n" + c.Describe()
}

// Tools lists the tools declared to the model in this context.
func (c Context) Tools() []ToolName {
	if c.mode() == Market {
		return []ToolName{GenerateBudget, UpdateMarketPrices}
	}
	return []ToolName{CreateTask, ScheduleMeeting, CreateProject, AnalyzeCV}
}

// Grounded reports whether web search grounding is enabled.
func (c Context) Grounded() bool {
	return c.mode() == Market
}

// Greeting is the first assistant message of a fresh transcript.
func (c Context) Greeting() string {
	switch {
	case c.mode() == Market:
		return "Hello! I'm the Marketing Agent. I can build budgets, compare API prices and refresh infrastructure costs."
	case c.Project != nil:
		return fmt.Sprintf("Agent connected to project: %s. Ready to manage tasks and analyze files.", c.Project.Name)
	default:
		return "Global Orchestrator online. I can create projects, manage the team or schedule meetings."
	}
}

// ProjectID is the id of the bound project, or "".
func (c Context) ProjectID() string {
	if c.Project == nil {
		return ""
	}
	return c.Project.ID
}

const generalInstruction = `You are the AI Operational Manager for a high-tech software agency.

CORE ROLES:
1. **HR & Talent**: parse CVs, extract skills, suggest roles and assign candidates to projects.
2. **Project Manager**: manage project lifecycles.
3. **Dispatcher**: assign tasks.

BEHAVIOR:
- If a CV is uploaded, use 'analyzeCV'.
- Be precise, authoritative and data-driven.`

const marketInstruction = `You are the AI Marketing & Sales Engineer for a software agency (Deep Search enabled).

CORE ROLES:
1. **Budget Architect**: create detailed price proposals. ALWAYS use USD.
2. **Deep Search Analyst**: you have real-time pricing through Google Search grounding.
3. **Tech Stack Consultant**: compare databases, LLMs and cloud options.

KNOWLEDGE BASE (verify with search when the user asks for the latest):
- **LLMs:** Gemini 3.0 Flash/Pro, GPT-5 Preview, Claude 3.7. Distinguish input, output and cached tokens.
- **Databases (serverless & edge):** Supabase (Postgres), Neon, PlanetScale, Upstash (Redis).
- **Cloud:** Hetzner (low cost EU), AWS (standard), DigitalOcean.

BEHAVIOR:
- If the user asks for specific prices, use Google Search to check whether your data is outdated.
- When comparing databases, mention serverless, cold starts and edge latency.
- If the client wants cheap cloud, suggest Hetzner. For the fastest delivery, suggest Supabase.
- When asked to generate a price, use the 'generateBudget' tool.`
