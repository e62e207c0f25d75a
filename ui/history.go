package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/measure/internal/history"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
)

const historyPanelWidth = 34

// historyView renders the most recent conversions, oldest first.
func historyView(log *history.Log, width int) string {
	if width <= 0 {
		width = historyPanelWidth
	}

	var b strings.Builder
	fmt.Fprintln(&b, titleStyle.Render("History"))
	fmt.Fprintln(&b)

	records := log.Recent(history.DisplayLimit)
	if len(records) == 0 {
		fmt.Fprint(&b, subtleStyle.Render(history.EmptyMessage))
		return b.String()
	}

	for i, r := range records {
		line := truncate.StringWithTail(r.String(), uint(width), ellipsis) //nolint:gosec
		if pad := width - runewidth.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		if i == len(records)-1 {
			line = keywordStyle.Render(line)
		}
		fmt.Fprint(&b, line)
		if i < len(records)-1 {
			fmt.Fprintln(&b)
		}
	}
	return b.String()
}
