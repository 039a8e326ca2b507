package market

import (
	"slices"

	"github.com/wagneradl/opsdesk/internal/models"
)

// MaxCompare is the number of tools shown side by side.
const MaxCompare = 2

// Category is a catalog section with its display title.
type Category struct {
	ID    string
	Title string
}

// Categories lists the catalog sections in display order.
var Categories = []Category{
	{models.MarketAPIAI, "LLM APIs"},
	{models.MarketDeploy, "Deploy & Hosting"},
	{models.MarketCloudInfra, "Databases & Cloud"},
	{models.MarketRAGTools, "RAG Tooling"},
	{models.MarketImageGen, "Image Generation"},
	{models.MarketVideoGen, "Video Generation"},
	{models.MarketPayments, "Payment Gateways"},
}

// InCategory returns the tools of one category, preserving catalog order.
func InCategory(tools []models.MarketTool, category string) []models.MarketTool {
	var out []models.MarketTool
	for _, t := range tools {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Selection is the comparison list.
type Selection struct {
	ids []string
}

// Toggle adds the tool id or removes it when already selected. Adding a
// third tool is refused and reported as false.
func (s *Selection) Toggle(id string) bool {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return true
	}
	if len(s.ids) >= MaxCompare {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Selected reports whether id is in the comparison list.
func (s *Selection) Selected(id string) bool {
	return slices.Contains(s.ids, id)
}

// Full reports whether no further tool can be added.
func (s *Selection) Full() bool { return len(s.ids) >= MaxCompare }

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string { return slices.Clone(s.ids) }

// Resolve returns the selected tools found in the catalog.
func (s *Selection) Resolve(tools []models.MarketTool) []models.MarketTool {
	var out []models.MarketTool
	for _, id := range s.ids {
		for _, t := range tools {
			if t.ID == id {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = nil }
