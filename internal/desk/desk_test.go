package desk

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wagneradl/opsdesk/internal/assistant"
	"github.com/wagneradl/opsdesk/internal/market"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/render"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var today = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

// cannedBackend answers every conversation from one shared script.
type cannedBackend struct {
	mu      sync.Mutex
	replies []assistant.Reply
}

func (b *cannedBackend) Open(context.Context, assistant.Setup) (assistant.Conversation, error) {
	return b, nil
}

func (b *cannedBackend) next() (assistant.Reply, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.replies) == 0 {
		return assistant.Reply{Text: "ok"}, nil
	}
	r := b.replies[0]
	b.replies = b.replies[1:]
	return r, nil
}

func (b *cannedBackend) Send(context.Context, string) (assistant.Reply, error) { return b.next() }

func (b *cannedBackend) Respond(context.Context, []assistant.ToolResult) (assistant.Reply, error) {
	return b.next()
}

func toolCall(name string, args map[string]any) assistant.Reply {
	return assistant.Reply{Calls: []assistant.ToolCall{{ID: "call-1", Name: name, Args: args}}}
}

type recordingPublisher struct {
	mu  sync.Mutex
	got []models.Meeting
}

func (p *recordingPublisher) Publish(_ context.Context, m models.Meeting) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, m)
	return nil
}

func newDesk(t *testing.T, backend assistant.Backend, opts ...func(*Options)) *Desk {
	t.Helper()
	ws := workspace.New(workspace.DefaultSeed(today.Format(workspace.DateLayout)),
		workspace.Options{Now: func() time.Time { return today }})
	o := Options{Workspace: ws, Backend: backend}
	for _, fn := range opts {
		fn(&o)
	}
	d := New(o)
	t.Cleanup(d.Close)
	return d
}

func fastRefresher(apply time.Duration) func(*Options) {
	return func(o *Options) {
		r := market.NewRefresher(rand.New(rand.NewPCG(3, 4)), nil)
		r.Stages = []market.Stage{{After: 0, Label: "go"}}
		r.ApplyAfter = apply
		o.Refresher = r
	}
}

func TestSendWithoutCredential(t *testing.T) {
	d := newDesk(t, nil)

	added := d.Send(context.Background(), "create a task called X")

	require.Len(t, added, 1)
	assert.Equal(t, assistant.NoCredentialReply, added[0].Text)
	assert.Len(t, d.Workspace().Tasks(), 3)
}

func TestCreateTaskFromChat(t *testing.T) {
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("createTask", map[string]any{"title": "Fix login bug", "area": "backend", "priority": "high"}),
		{Text: "Added."},
	}})

	added := d.Send(context.Background(), "please add a task")

	tasks := d.Workspace().Tasks()
	require.Len(t, tasks, 4)
	got := tasks[0]
	assert.Equal(t, "Fix login bug", got.Title)
	assert.Equal(t, models.TaskBacklog, got.Status)
	assert.Equal(t, "backend", got.Area)
	assert.Equal(t, "high", got.Priority)
	assert.Equal(t, workspace.Unassigned, got.Assignee)
	assert.Empty(t, got.ProjectID)

	require.Len(t, added, 1)
	assert.Equal(t, "[Task Created: Fix login bug] Added.", added[0].Text)
}

func TestCreateTaskUsesProjectScope(t *testing.T) {
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("createTask", map[string]any{"title": "Write docs", "assignee": "Aria Mendes"}),
		{Text: "ok"},
	}})
	require.NoError(t, d.SelectProject("p2"))

	d.Send(context.Background(), "task for this project")

	got := d.Workspace().Tasks()[0]
	assert.Equal(t, "p2", got.ProjectID)
	assert.Equal(t, "Aria Mendes", got.Assignee)
	assert.Equal(t, models.PriorityMedium, got.Priority)
	assert.Equal(t, "general", got.Area)
}

func TestScheduleMeetingConflictFromChat(t *testing.T) {
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("scheduleMeeting", map[string]any{"title": "Design sync", "time": "14:00"}),
		{Text: "I have booked it."},
	}})
	before := d.Workspace().Meetings()

	added := d.Send(context.Background(), "meeting at 14:00 today")

	assert.Equal(t, before, d.Workspace().Meetings())
	require.Len(t, added, 2)
	assert.Contains(t, added[0].Text, "**SCHEDULING CONFLICT**")
	assert.Contains(t, added[0].Text, `already taken by: "Sprint Review"`)
	assert.Contains(t, added[0].Text, "**14:00** on **2026-10-15**")
	assert.Equal(t, "[Meeting Set: Design sync] I have booked it.", added[1].Text)
}

func TestScheduleMeetingPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("scheduleMeeting", map[string]any{"title": "Kick-off", "time": "11:00", "date": "2026-10-20"}),
		{Text: "done"},
	}}, func(o *Options) { o.Publisher = pub })

	d.Send(context.Background(), "book kick-off")
	d.Close()

	meetings := d.Workspace().Meetings()
	require.Len(t, meetings, 3)
	assert.Equal(t, models.MeetingInternal, meetings[2].Type)
	require.Len(t, pub.got, 1)
	assert.Equal(t, "Kick-off", pub.got[0].Title)
}

func TestCreateProjectFromChatOpensIt(t *testing.T) {
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("createProject", map[string]any{"name": "CRM", "client": "Acme", "category": "development"}),
		{Text: "Created."},
	}})

	d.Send(context.Background(), "new CRM project for Acme")

	p, ok := d.CurrentProject()
	require.True(t, ok)
	assert.Equal(t, ProjectDetail, d.View())
	assert.Equal(t, "CRM", p.Name)
	assert.Equal(t, models.ProjectPlanning, p.Status)
	assert.Equal(t, 0, p.Progress)
	assert.Equal(t, "2026-10-15", p.StartDate)
	assert.Equal(t, "TBD", p.Deadline)
	assert.Equal(t, "New project via AI", p.Description)
	assert.Equal(t, p.ID, d.Workspace().Projects()[0].ID)

	msgs := d.Chat().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Agent connected to project: CRM. Ready to manage tasks and analyze files.", msgs[0].Text)
}

func TestCreateProjectManual(t *testing.T) {
	d := newDesk(t, nil)

	p, err := d.CreateProjectManual("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectName, p.Name)
	assert.Equal(t, DefaultProjectClient, p.Client)
	assert.Equal(t, models.CategoryDevelopment, p.Category)
	assert.Equal(t, ProjectDetail, d.View())
}

func TestGenerateBudgetAndExport(t *testing.T) {
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("generateBudget", map[string]any{
			"clientName":   "Acme",
			"items":        []any{map[string]any{"toolName": "Gemini", "cost": 10, "description": "LLM"}},
			"totalMonthly": 10,
			"setupFee":     0,
		}),
		{Text: "Proposal ready."},
	}})
	require.NoError(t, d.Navigate(Market))

	d.Send(context.Background(), "budget for Acme")

	b, ok := d.ActiveBudget()
	require.True(t, ok)
	assert.Equal(t, models.BudgetGenerated, b.Status)
	assert.Equal(t, []models.BudgetItem{{ToolName: "Gemini", Cost: 10, Description: "LLM"}}, b.Items)
	assert.Equal(t, 10.0, b.TotalMonthly)
	assert.Equal(t, 0.0, b.SetupFee)

	dir := t.TempDir()
	path, err := d.ExportBudget(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Budget_Acme.txt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, render.BudgetText(b, today), string(data))

	_, err = d.ExportBudget(dir, "missing")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestUpdatePricesFromChat(t *testing.T) {
	d := newDesk(t, &cannedBackend{replies: []assistant.Reply{
		toolCall("updateMarketPrices", map[string]any{"confirm": true}),
		{Text: "Refreshing."},
	}}, fastRefresher(time.Millisecond))
	require.NoError(t, d.Navigate(Market))

	d.Send(context.Background(), "refresh prices")

	require.Eventually(t, func() bool {
		return d.Workspace().Tools()[0].LastUpdated == market.UpdatedLabel
	}, time.Second, 5*time.Millisecond)
	for _, tool := range d.Workspace().Tools() {
		if tool.ID == "vid3" {
			assert.Zero(t, tool.Price)
		}
	}
}

func TestLeavingMarketCancelsRefresh(t *testing.T) {
	d := newDesk(t, nil, fastRefresher(time.Hour))
	require.NoError(t, d.Navigate(Market))
	before := d.Workspace().Tools()

	require.True(t, d.StartRefresh())
	require.Eventually(t, d.Refresher().Active, time.Second, time.Millisecond)

	require.NoError(t, d.Navigate(Dashboard))
	require.Eventually(t, func() bool { return !d.Refresher().Active() }, time.Second, time.Millisecond)
	assert.Equal(t, before, d.Workspace().Tools())
	assert.Equal(t, market.IdleLabel, d.Refresher().Status())
}

func TestNavigationRetargetsChat(t *testing.T) {
	d := newDesk(t, nil)

	assert.ErrorIs(t, d.Navigate(ProjectDetail), workspace.ErrNotFound)
	assert.ErrorIs(t, d.SelectProject("nope"), workspace.ErrNotFound)

	require.NoError(t, d.Navigate(Market))
	assert.Equal(t, assistant.Market, d.Chat().Context().Mode)

	// Views without their own chat keep the previous scope.
	require.NoError(t, d.Navigate(Team))
	assert.Equal(t, assistant.Market, d.Chat().Context().Mode)

	require.NoError(t, d.SelectProject("p1"))
	assert.Equal(t, "p1", d.Chat().Context().ProjectID())

	require.NoError(t, d.Navigate(Dashboard))
	_, ok := d.CurrentProject()
	assert.False(t, ok)
	assert.Equal(t, assistant.General, d.Chat().Context().Mode)
	assert.Nil(t, d.Chat().Context().Project)
}

func TestToggleCompare(t *testing.T) {
	d := newDesk(t, nil)

	assert.False(t, d.ToggleCompare("does-not-exist"))
	assert.True(t, d.ToggleCompare("llm1"))
	assert.True(t, d.ToggleCompare("llm2"))
	assert.False(t, d.ToggleCompare("llm3"))
	assert.Len(t, d.Compared(), 2)

	assert.True(t, d.ToggleCompare("llm1"))
	sel := d.Selection()
	assert.Equal(t, []string{"llm2"}, sel.IDs())
}

func TestUpdateProject(t *testing.T) {
	d := newDesk(t, nil)
	require.NoError(t, d.SelectProject("p2"))

	p, err := d.UpdateProject("p2", "Headless storefront rebuild", "Production")
	require.NoError(t, err)
	assert.Equal(t, models.ProjectProduction, p.Status)
	assert.Equal(t, "Headless storefront rebuild", p.Description)

	stored, ok := d.Workspace().Project("p2")
	require.True(t, ok)
	assert.Equal(t, p, stored)
	assert.Contains(t, d.Chat().Context().Describe(), "(production)")

	p, err = d.UpdateProject("p2", "", models.ProjectMaintenance)
	require.NoError(t, err)
	assert.Equal(t, "Headless storefront rebuild", p.Description)
	assert.Equal(t, models.ProjectMaintenance, p.Status)
}

func TestUpdateProjectRejectsBadInput(t *testing.T) {
	d := newDesk(t, nil)
	before := d.Workspace().Projects()

	_, err := d.UpdateProject("p1", "x", "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = d.UpdateProject("nope", "x", models.ProjectPlanning)
	assert.ErrorIs(t, err, workspace.ErrNotFound)

	assert.Equal(t, before, d.Workspace().Projects())
}

func TestReenteringChatViewStartsFresh(t *testing.T) {
	d := newDesk(t, &cannedBackend{})

	d.Send(context.Background(), "hello")
	require.Len(t, d.Chat().Messages(), 3)

	require.NoError(t, d.Navigate(Dashboard))
	assert.Len(t, d.Chat().Messages(), 3, "staying on a view keeps the transcript")

	require.NoError(t, d.Navigate(Tasks))
	assert.Len(t, d.Chat().Messages(), 3)

	require.NoError(t, d.Navigate(Dashboard))
	msgs := d.Chat().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, assistant.Context{Mode: assistant.General}.Greeting(), msgs[0].Text)
}

// gatedBackend requests one tool call and holds the follow-up reply until
// release is closed.
type gatedBackend struct {
	first   assistant.Reply
	release chan struct{}
}

func (b *gatedBackend) Open(context.Context, assistant.Setup) (assistant.Conversation, error) {
	return b, nil
}

func (b *gatedBackend) Send(context.Context, string) (assistant.Reply, error) { return b.first, nil }

func (b *gatedBackend) Respond(context.Context, []assistant.ToolResult) (assistant.Reply, error) {
	<-b.release
	return assistant.Reply{Text: "Created."}, nil
}

func TestSupersededTurnDoesNotOpenProject(t *testing.T) {
	b := &gatedBackend{
		first:   toolCall("createProject", map[string]any{"name": "CRM", "client": "Acme", "category": "development"}),
		release: make(chan struct{}),
	}
	d := newDesk(t, b)

	sent := make(chan []models.ChatMessage)
	go func() { sent <- d.Send(context.Background(), "new CRM project") }()
	require.Eventually(t, func() bool { return len(d.Workspace().Projects()) == 4 }, time.Second, time.Millisecond)

	navigated := make(chan error)
	go func() { navigated <- d.Navigate(Market) }()
	marketGreeting := assistant.Context{Mode: assistant.Market}.Greeting()
	require.Eventually(t, func() bool {
		msgs := d.Chat().Messages()
		return len(msgs) == 1 && msgs[0].Text == marketGreeting
	}, time.Second, time.Millisecond)

	close(b.release)
	assert.Nil(t, <-sent)
	require.NoError(t, <-navigated)

	assert.Equal(t, Market, d.View())
	_, ok := d.CurrentProject()
	assert.False(t, ok)
	assert.Equal(t, "CRM", d.Workspace().Projects()[0].Name)
}

func TestStartRefreshIsExclusive(t *testing.T) {
	d := newDesk(t, nil, fastRefresher(time.Hour))
	require.NoError(t, d.Navigate(Market))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.StartRefresh() {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, started)

	require.Eventually(t, d.Refresher().Active, time.Second, time.Millisecond)
	require.NoError(t, d.Navigate(Dashboard))
	require.Eventually(t, func() bool { return !d.Refresher().Active() }, time.Second, time.Millisecond)
	assert.True(t, d.StartRefresh(), "a new refresh may start once the old one stopped")
}

func TestRefreshFromMarketChatOutsideMarketView(t *testing.T) {
	d := newDesk(t, nil, fastRefresher(time.Hour))
	require.NoError(t, d.Navigate(Market))
	require.NoError(t, d.Navigate(Team))
	require.Equal(t, assistant.Market, d.Chat().Context().Mode)
	before := d.Workspace().Tools()

	require.True(t, d.StartRefresh())
	require.Eventually(t, d.Refresher().Active, time.Second, time.Millisecond)

	require.NoError(t, d.Navigate(Dashboard))
	require.Eventually(t, func() bool { return !d.Refresher().Active() }, time.Second, time.Millisecond)
	assert.Equal(t, before, d.Workspace().Tools())
}
