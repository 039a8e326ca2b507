package render

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wagneradl/opsdesk/internal/market"
	"github.com/wagneradl/opsdesk/internal/models"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// Dashboard is the landing view: stats, the operational table and the board.
func Dashboard(ws *workspace.Workspace, width int) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(Stats(ws)),
		sectionStyle.Render(OperationalTable(ws)),
		Kanban(ws, width),
	)
}

// NextMeeting returns the earliest meeting on or after today.
func NextMeeting(ws *workspace.Workspace) (models.Meeting, bool) {
	today := ws.Today()
	var upcoming []models.Meeting
	for _, m := range ws.Meetings() {
		if m.Date >= today {
			upcoming = append(upcoming, m)
		}
	}
	if len(upcoming) == 0 {
		return models.Meeting{}, false
	}
	slices.SortStableFunc(upcoming, func(a, b models.Meeting) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
	return upcoming[0], true
}

// Stats renders the four summary cards.
func Stats(ws *workspace.Workspace) string {
	next := "nothing scheduled"
	if m, ok := NextMeeting(ws); ok {
		next = fmt.Sprintf("%s %s %s", m.Date, m.Time, m.Title)
	}
	var monthly float64
	budgets := ws.Budgets()
	for _, b := range budgets {
		monthly += b.TotalMonthly
	}
	online := 0
	for _, m := range ws.Team() {
		if m.Status == "online" {
			online++
		}
	}

	card := func(label, value string) string {
		return cardStyle.Render(headerStyle.Render(label) + "\n" + value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Open tasks", titleStyle.Render(fmt.Sprint(ws.OpenTaskCount()))),
		card("Next meeting", next),
		card("Budgets", fmt.Sprintf("%d ($%s/mo)", len(budgets), humanize.CommafWithDigits(monthly, 2))),
		card("Team online", fmt.Sprintf("%d/%d", online, len(ws.Team()))),
	)
}

// OperationalTable lists every task with its project and assignee.
func OperationalTable(ws *workspace.Workspace) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("TASK", 32) + pad("PROJECT", 26) + pad("ASSIGNEE", 16) + pad("PRIORITY", 10) + "STATUS"))
	b.WriteString("\n")
	for _, t := range ws.Tasks() {
		project := "-"
		if p, ok := ws.Project(t.ProjectID); ok {
			project = p.Name
		}
		fmt.Fprintf(&b, "%s%s%s%s%s\n",
			pad(t.Title, 32), pad(project, 26), pad(ws.AssigneeName(t.Assignee), 16),
			priorityStyle(t.Priority).Render(pad(t.Priority, 10)), t.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

var columnTitles = map[string]string{
	models.TaskBacklog:    "Backlog",
	models.TaskInProgress: "In progress",
	models.TaskReview:     "Review",
	models.TaskDone:       "Done",
}

// Kanban renders the four status columns side by side.
func Kanban(ws *workspace.Workspace, width int) string {
	board := ws.Board()
	colWidth := max(width/len(board)-4, 18)
	cols := make([]string, 0, len(board))
	for _, col := range board {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(columnTitles[col.Status]), mutedStyle.Render(fmt.Sprintf("(%d)", len(col.Tasks))))
		for _, t := range col.Tasks {
			fmt.Fprintf(&b, "%s\n%s\n", pad(t.Title, colWidth), mutedStyle.Render(pad(t.Area+" · "+ws.AssigneeName(t.Assignee), colWidth)))
		}
		cols = append(cols, cardStyle.Width(colWidth+2).Render(strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// Team renders the roster with workload and assignments.
func Team(ws *workspace.Workspace) string {
	var cards []string
	for _, m := range ws.Team() {
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n%s\n", statusDot(m.Status), titleStyle.Render(m.Name), mutedStyle.Render(m.Role))
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(m.Skills, ", "))
		if m.Schedule != "" {
			fmt.Fprintf(&b, "Schedule: %s\n", m.Schedule)
		}
		fmt.Fprintf(&b, "Workload: %d%%  Tasks: %d  Projects: %d",
			m.Workload, len(ws.MemberTasks(m.ID)), len(ws.MemberProjects(m.ID)))
		cards = append(cards, cardStyle.Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Projects lists projects with status and progress.
func Projects(ws *workspace.Workspace) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(pad("ID", 14) + pad("PROJECT", 28) + pad("CLIENT", 18) + pad("STATUS", 13) + "PROGRESS"))
	b.WriteString("\n")
	for _, p := range ws.Projects() {
		fmt.Fprintf(&b, "%s%s%s%s%s\n", mutedStyle.Render(pad(p.ID, 14)), pad(p.Name, 28), pad(p.Client, 18), pad(p.Status, 13), progressBar(p.Progress, 10))
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressBar(pct, width int) string {
	filled := min(max(pct, 0), 100) * width / 100
	return goodStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled)) + fmt.Sprintf(" %3d%%", pct)
}

// ProjectDetail renders one project with its roadmap, team and tasks.
func ProjectDetail(ws *workspace.Workspace, id string) (string, error) {
	p, ok := ws.Project(id)
	if !ok {
		return "", fmt.Errorf("project %q: %w", id, workspace.ErrNotFound)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render(p.Name), mutedStyle.Render(p.Client+" · "+p.Category))
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n", p.Description)
	}
	fmt.Fprintf(&b, "%s → %s  %s\n", p.StartDate, p.Deadline, progressBar(p.Progress, 20))
	if len(p.TechStack) > 0 {
		fmt.Fprintf(&b, "Stack: %s\n", strings.Join(p.TechStack, ", "))
	}

	if len(p.Roadmap) > 0 {
		b.WriteString("\n" + headerStyle.Render("ROADMAP") + "\n")
		for _, st := range p.Roadmap {
			mark := mutedStyle.Render("○")
			switch st.Status {
			case "done":
				mark = goodStyle.Render("✓")
			case "current":
				mark = warnStyle.Render("▶")
			}
			fmt.Fprintf(&b, "%s %s %s\n", mark, st.Step, mutedStyle.Render(st.Date))
		}
	}

	b.WriteString("\n" + headerStyle.Render("TEAM") + "\n")
	for _, mid := range p.TeamIDs {
		if m, ok := ws.Member(mid); ok {
			fmt.Fprintf(&b, "%s %s %s\n", statusDot(m.Status), m.Name, mutedStyle.Render(m.Role))
		}
	}

	b.WriteString("\n" + headerStyle.Render("TASKS") + "\n")
	for _, t := range ws.ProjectTasks(p.ID) {
		fmt.Fprintf(&b, "[%s] %s %s\n", pad(t.Status, 11), pad(t.Title, 34), priorityStyle(t.Priority).Render(t.Priority))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Calendar lists meetings by date and time.
func Calendar(ws *workspace.Workspace) string {
	meetings := ws.Meetings()
	slices.SortStableFunc(meetings, func(a, b models.Meeting) int {
		return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time))
	})
	today := ws.Today()
	var b strings.Builder
	for _, m := range meetings {
		line := fmt.Sprintf("%s %s  %s %s", m.Date, m.Time, pad(m.Title, 30), mutedStyle.Render(m.Type))
		if m.Date == today {
			line = titleStyle.Render("•") + " " + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Market renders the catalog by category. Tools in the comparison list are
// marked; status is the refresh control label.
func Market(tools []models.MarketTool, sel *market.Selection, status string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", titleStyle.Render("Market prices"), mutedStyle.Render("["+status+"]"))
	for _, cat := range market.Categories {
		in := market.InCategory(tools, cat.ID)
		if len(in) == 0 {
			continue
		}
		b.WriteString("\n" + headerStyle.Render(strings.ToUpper(cat.Title)) + "\n")
		for _, t := range in {
			mark := " "
			if sel != nil && sel.Selected(t.ID) {
				mark = titleStyle.Render("✓")
			}
			fmt.Fprintf(&b, "%s %s%s%s %s\n", mark, pad(t.ID, 6), pad(t.Name, 24), pad(Price(t), 16), Trend(t))
		}
	}
	if sel != nil && len(sel.IDs()) > 0 {
		fmt.Fprintf(&b, "\nCompare (%d/%d): %s\n", len(sel.IDs()), market.MaxCompare, strings.Join(sel.IDs(), ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Compare renders the selected tools side by side.
func Compare(tools []models.MarketTool) string {
	cols := make([]string, 0, len(tools))
	for _, t := range tools {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n%s\n\n", titleStyle.Render(t.Name), mutedStyle.Render(t.Provider))
		if t.Price == 0 {
			b.WriteString("Free\n")
		} else {
			fmt.Fprintf(&b, "%s%s %s\n", currencySymbol(t.Currency), amount(t.Price), mutedStyle.Render(t.Unit))
		}
		if s := t.Specs; s != nil {
			for _, kv := range [][2]string{
				{"Context", s.ContextWindow}, {"Output", s.MaxOutput}, {"Latency", s.Latency}, {"Release", s.ReleaseDate},
			} {
				if kv[1] != "" {
					fmt.Fprintf(&b, "%s: %s\n", kv[0], kv[1])
				}
			}
			if len(s.Modalities) > 0 {
				fmt.Fprintf(&b, "Modalities: %s\n", strings.Join(s.Modalities, ", "))
			}
		}
		for _, v := range t.Variants {
			fmt.Fprintf(&b, "· %s: %s\n", v.Name, VariantPrice(t.Currency, v))
		}
		cols = append(cols, cardStyle.Width(38).Render(strings.TrimRight(b.String(), "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// Budget renders a proposal as a table.
func Budget(p models.BudgetProposal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("Proposal for "+p.ClientName), mutedStyle.Render("("+p.Status+")"))
	for _, it := range p.Items {
		fmt.Fprintf(&b, "%s%s %s\n", pad(it.ToolName, 24), pad(fmt.Sprintf("$%.2f", it.Cost), 12), mutedStyle.Render(it.Description))
	}
	fmt.Fprintf(&b, "%s$%.2f\n", pad("Total monthly", 24), p.TotalMonthly)
	fmt.Fprintf(&b, "%s$%.2f", pad("Setup fee", 24), p.SetupFee)
	return b.String()
}
