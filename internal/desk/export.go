package desk

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/wagneradl/opsdesk/internal/render"
	"github.com/wagneradl/opsdesk/internal/workspace"
)

// ExportBudget writes the plain-text summary of a proposal into dir and
// returns the file path. An empty id exports the active proposal.
func (d *Desk) ExportBudget(dir, id string) (string, error) {
	b, ok := d.ActiveBudget()
	if id != "" {
		b, ok = d.ws.Budget(id)
	}
	if !ok {
		return "", fmt.Errorf("budget %q: %w", id, workspace.ErrNotFound)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, render.BudgetFileName(b))
	text := render.BudgetText(b, d.ws.Now())
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("write budget: %w", err)
	}
	d.logger.Info("budget exported", zap.String("id", b.ID), zap.String("path", path))
	return path, nil
}
