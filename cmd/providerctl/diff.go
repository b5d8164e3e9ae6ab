package main

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/germanamz/providerctl/pkg/engine"
	"github.com/germanamz/providerctl/pkg/provider"
)

// changeDiff renders the unified diff between the saved provider (nil when
// creating one) and the input about to be submitted. It returns "" when
// nothing changed.
func changeDiff(saved *provider.Config, in provider.MutationInput) (string, error) {
	var before []byte
	if saved != nil {
		var err error
		if before, err = engine.MarshalProvider(*saved); err != nil {
			return "", err
		}
	}

	after, err := engine.MarshalProvider(provider.Config{Name: in.Name, Type: in.Type, Agents: in.Agents})
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "saved",
		ToFile:   "edited",
		Context:  3,
	})
}

// colorizeDiff styles added, removed and hunk header lines.
func colorizeDiff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = diffHdrStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = diffAddStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = diffDelStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
