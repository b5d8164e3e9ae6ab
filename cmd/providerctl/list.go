package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/germanamz/providerctl/pkg/engine"
	"github.com/germanamz/providerctl/pkg/provider"
)

const (
	maxProviderColumn = 40
	columnGap     = "  "
)

func runList(ctx context.Context, eng *engine.Engine, w io.Writer) error {
	providers, err := eng.Providers(ctx)
	if err != nil {
		return err
	}

	if len(providers) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No providers configured."))
		return nil
	}

	fmt.Fprint(w, formatProviderTable(providers))
	return nil
}

// formatProviderTable lays providers out as aligned columns. The provider
// column holds the name, with the type added when the two differ, truncated
// to maxProviderColumn cells.
func formatProviderTable(providers []provider.Config) string {
	header := []string{"ID", "PROVIDER", "AGENTS", "UPDATED"}
	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		updated := "-"
		if p.UpdatedAt != nil {
			updated = p.UpdatedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			p.ID.String(),
			truncate(provider.Tooltip(p), maxProviderColumn),
			strconv.Itoa(p.Agents.Len()),
			updated,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, render func(string) string) {
		for i, cell := range cells {
			if i > 0 {
				sb.WriteString(columnGap)
			}
			if i == len(cells)-1 {
				sb.WriteString(render(cell))
				continue
			}
			sb.WriteString(render(runewidth.FillRight(cell, widths[i])))
		}
		sb.WriteString("\n")
	}

	writeRow(header, func(s string) string { return headerStyle.Render(s) })
	for _, row := range rows {
		writeRow(row, func(s string) string { return s })
	}
	return sb.String()
}
