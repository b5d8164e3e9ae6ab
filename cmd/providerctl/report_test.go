package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/germanamz/providerctl/pkg/provider"
)

func ptr[T any](v T) *T { return &v }

func sampleResults() provider.TestResults {
	var res provider.TestResults
	res.Agents.Set("simpleJson", provider.AgentTestResult{Tests: []provider.TestCase{
		{Name: "json output", Type: "completion", Result: ptr(true), Latency: ptr(420)},
		{Name: "schema | strict", Type: "completion", Result: ptr(false), Error: ptr("bad\nschema")},
	}})
	res.Agents.Set("coder", provider.AgentTestResult{Tests: []provider.TestCase{
		{Name: "stream", Type: "completion", Streaming: ptr(true), Reasoning: ptr(true), Latency: ptr(2500)},
	}})
	return res
}

func TestTestReport(t *testing.T) {
	out := testReport("Production", sampleResults())

	assert.True(t, strings.HasPrefix(out, "# Test results: Production\n"))
	assert.Contains(t, out, "## Simple Json (1/2 passed)")
	assert.Contains(t, out, "## Coder (0/1 passed)")
	assert.Less(t, strings.Index(out, "Simple Json"), strings.Index(out, "Coder"), "roles keep backend order")

	assert.Contains(t, out, "| json output | completion | ✓ Success | 420ms |  |")
	assert.Contains(t, out, `| schema \| strict | completion | ✗ Failed | - | bad schema |`)
	assert.Contains(t, out, "| stream | completion | ? Unknown | 2.5s | streaming, reasoning |")
}

func TestTestReport_Empty(t *testing.T) {
	out := testReport("", provider.TestResults{})
	assert.Contains(t, out, "# Test results\n")
	assert.Contains(t, out, "No checks were run.")
}

func TestTestSummary(t *testing.T) {
	assert.Contains(t, testSummary(sampleResults()), "1/3 checks passed")
	assert.Contains(t, testSummary(provider.TestResults{}), "0/0 checks passed")
}
