package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-3-flash-preview"

// GeminiBackend talks to the Gemini API through google.golang.org/genai.
type GeminiBackend struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiBackend creates a backend for apiKey. An empty model selects
// DefaultModel.
func NewGeminiBackend(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty API key")
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiBackend{client: client, model: model, logger: logger}, nil
}

// Open starts a conversation. The history lives in the returned value.
func (g *GeminiBackend) Open(_ context.Context, setup Setup) (Conversation, error) {
	var decls []*genai.FunctionDeclaration
	for _, name := range setup.Tools {
		d, ok := declarations[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
		}
		decls = append(decls, d)
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(setup.Instruction, genai.RoleUser),
	}
	if len(decls) > 0 {
		cfg.Tools = append(cfg.Tools, &genai.Tool{FunctionDeclarations: decls})
	}
	if setup.Grounding {
		cfg.Tools = append(cfg.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	return &geminiConversation{backend: g, config: cfg}, nil
}

type geminiConversation struct {
	backend *GeminiBackend
	config  *genai.GenerateContentConfig
	history []*genai.Content
}

func (c *geminiConversation) Send(ctx context.Context, text string) (Reply, error) {
	return c.generate(ctx, genai.NewContentFromText(text, genai.RoleUser))
}

func (c *geminiConversation) Respond(ctx context.Context, results []ToolResult) (Reply, error) {
	parts := make([]*genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
			ID:       r.ID,
			Name:     r.Name,
			Response: map[string]any{"result": r.Result},
		}})
	}
	return c.generate(ctx, genai.NewContentFromParts(parts, genai.RoleUser))
}

// generate sends the history plus msg. The history only grows when the
// call succeeds.
func (c *geminiConversation) generate(ctx context.Context, msg *genai.Content) (Reply, error) {
	contents := append(append([]*genai.Content(nil), c.history...), msg)

	resp, err := c.backend.client.Models.GenerateContent(ctx, c.backend.model, contents, c.config)
	if err != nil {
		return Reply{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Reply{}, errors.New("gemini: empty response")
	}

	cand := resp.Candidates[0]
	c.history = append(contents, cand.Content)

	reply := Reply{Text: resp.Text()}
	for _, fc := range resp.FunctionCalls() {
		reply.Calls = append(reply.Calls, ToolCall{ID: fc.ID, Name: fc.Name, Args: fc.Args})
	}
	if gm := cand.GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			reply.Sources = append(reply.Sources, Source{Title: chunk.Web.Title, URI: chunk.Web.URI})
		}
	}
	c.backend.logger.Debug("gemini reply",
		zap.Int("calls", len(reply.Calls)), zap.Int("sources", len(reply.Sources)), zap.Int("history", len(c.history)))
	return reply, nil
}

func str(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

var declarations = map[ToolName]*genai.FunctionDeclaration{
	CreateTask: {
		Name:        string(CreateTask),
		Description: "Creates a new task. Use this when the user explicitly asks to add a work item.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":    str("Title of the task"),
				"area":     str("Area: frontend, backend, design, devops, mobile, qa"),
				"priority": str("high, medium, low"),
				"assignee": str("Name of team member"),
			},
			Required: []string{"title", "area", "priority"},
		},
	},
	ScheduleMeeting: {
		Name:        string(ScheduleMeeting),
		Description: "Schedules a meeting.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": str("Meeting title"),
				"time":  str("Start time as HH:MM"),
				"date":  str("Date as yyyy-mm-dd"),
			},
			Required: []string{"title", "time"},
		},
	},
	CreateProject: {
		Name:        string(CreateProject),
		Description: "Creates a new client project.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":        str("Project internal name"),
				"client":      str("Client name"),
				"category":    str("production, development, tools, maintenance"),
				"description": str("Short description"),
			},
			Required: []string{"name", "client", "category"},
		},
	},
	AnalyzeCV: {
		Name:        string(AnalyzeCV),
		Description: "Analyzes a CV content to extract skills and suggest a role.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"candidateName":     str(""),
				"extractedSkills":   {Type: genai.TypeArray, Items: str("")},
				"suggestedRole":     str(""),
				"experienceSummary": str(""),
			},
			Required: []string{"candidateName", "suggestedRole"},
		},
	},
	GenerateBudget: {
		Name:        string(GenerateBudget),
		Description: "Calculates and generates a budget proposal based on requirements.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"clientName": str(""),
				"items": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"toolName":    str(""),
							"cost":        {Type: genai.TypeNumber},
							"description": str(""),
						},
					},
				},
				"setupFee":     {Type: genai.TypeNumber},
				"totalMonthly": {Type: genai.TypeNumber},
			},
			Required: []string{"clientName", "totalMonthly", "items"},
		},
	},
	UpdateMarketPrices: {
		Name:        string(UpdateMarketPrices),
		Description: "Refreshes the prices of the market catalog.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"confirm": {Type: genai.TypeBoolean},
			},
		},
	},
}
