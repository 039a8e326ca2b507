package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wagneradl/opsdesk/internal/models"
)

// BudgetText is the plain-text summary written when a proposal is exported.
func BudgetText(b models.BudgetProposal, date time.Time) string {
	var s strings.Builder
	s.WriteString("OFFICIAL BUDGET - DEV DESK\n")
	s.WriteString("---------------------------------\n")
	fmt.Fprintf(&s, "Client: %s\n", b.ClientName)
	fmt.Fprintf(&s, "Date: %s\n\n", date.Format("2006-01-02"))
	s.WriteString("MONTHLY ITEMS:\n")
	for _, it := range b.Items {
		fmt.Fprintf(&s, "- %s: $%s (%s)\n", it.ToolName, strconv.FormatFloat(it.Cost, 'f', -1, 64), it.Description)
	}
	s.WriteString("\n---------------------------------\n")
	fmt.Fprintf(&s, "TOTAL MONTHLY: $%.2f\n", b.TotalMonthly)
	fmt.Fprintf(&s, "SETUP FEE: $%.2f\n", b.SetupFee)
	return s.String()
}

// BudgetFileName is the export file name for a proposal.
func BudgetFileName(b models.BudgetProposal) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, b.ClientName)
	return "Budget_" + name + ".txt"
}
