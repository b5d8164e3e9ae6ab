package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/germanamz/providerctl/pkg/provider"
)

// testReport renders test results as a markdown document: one section per
// agent role with a pass count and a table of its checks.
func testReport(name string, res provider.TestResults) string {
	var sb strings.Builder

	title := "Test results"
	if name != "" {
		title += ": " + name
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if res.Agents.Len() == 0 {
		sb.WriteString("_No checks were run._\n")
		return sb.String()
	}

	res.Agents.Each(func(role string, r provider.AgentTestResult) bool {
		fmt.Fprintf(&sb, "## %s (%d/%d passed)\n\n", provider.RoleDisplayName(role), r.Passed(), len(r.Tests))
		if len(r.Tests) == 0 {
			sb.WriteString("_No checks._\n\n")
			return true
		}

		sb.WriteString("| Check | Type | Result | Latency | Details |\n")
		sb.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, tc := range r.Tests {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
				escapeCell(tc.Name),
				escapeCell(tc.Type),
				outcomeMark(tc.Outcome()),
				latency(tc.Latency),
				escapeCell(details(tc)),
			)
		}
		sb.WriteString("\n")
		return true
	})

	return sb.String()
}

func outcomeMark(o provider.TestOutcome) string {
	switch o {
	case provider.OutcomeSuccess:
		return "✓ " + o.String()
	case provider.OutcomeFailed:
		return "✗ " + o.String()
	default:
		return "? " + o.String()
	}
}

func latency(ms *int) string {
	if ms == nil {
		return "-"
	}
	return fmtDuration(time.Duration(*ms) * time.Millisecond)
}

func details(tc provider.TestCase) string {
	var parts []string
	if tc.Streaming != nil && *tc.Streaming {
		parts = append(parts, "streaming")
	}
	if tc.Reasoning != nil && *tc.Reasoning {
		parts = append(parts, "reasoning")
	}
	if tc.Error != nil && *tc.Error != "" {
		parts = append(parts, *tc.Error)
	}
	return strings.Join(parts, ", ")
}

// escapeCell keeps a value on one table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

// testSummary is the one-line result shown outside the full report.
func testSummary(res provider.TestResults) string {
	passed, total := 0, 0
	res.Agents.Each(func(_ string, r provider.AgentTestResult) bool {
		passed += r.Passed()
		total += len(r.Tests)
		return true
	})

	line := fmt.Sprintf("%d/%d checks passed", passed, total)
	switch {
	case total == 0:
		return unknownStyle.Render(line)
	case passed == total:
		return passStyle.Render(line)
	default:
		return failStyle.Render(line)
	}
}
