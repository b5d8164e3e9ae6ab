package provider

import "encoding/json"

// TestOutcome classifies a single provider check.
type TestOutcome int

const (
	OutcomeUnknown TestOutcome = iota
	OutcomeSuccess
	OutcomeFailed
)

func (o TestOutcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "Success"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// TestCase is one check the backend ran against an agent's model. Result is
// nil when the backend could not decide.
type TestCase struct {
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Result    *bool   `json:"result"`
	Reasoning *bool   `json:"reasoning"`
	Streaming *bool   `json:"streaming"`
	Latency   *int    `json:"latency"`
	Error     *string `json:"error"`
}

// Outcome maps the tri-state result to a TestOutcome.
func (t TestCase) Outcome() TestOutcome {
	switch {
	case t.Result == nil:
		return OutcomeUnknown
	case *t.Result:
		return OutcomeSuccess
	default:
		return OutcomeFailed
	}
}

// AgentTestResult holds the checks run for one agent role.
type AgentTestResult struct {
	Tests []TestCase `json:"tests"`
}

// Passed counts the checks that succeeded.
func (r AgentTestResult) Passed() int {
	n := 0
	for _, t := range r.Tests {
		if t.Outcome() == OutcomeSuccess {
			n++
		}
	}
	return n
}

// TestResults is the testProvider payload keyed by agent role, in backend
// order.
type TestResults struct {
	Agents AgentMap[AgentTestResult]
}

func (r TestResults) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Agents)
}

func (r *TestResults) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Agents)
}
