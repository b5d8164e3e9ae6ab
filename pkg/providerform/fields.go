package providerform

// NumberKind tells how a numeric field is parsed.
type NumberKind int

const (
	Float NumberKind = iota
	Integer
)

// NumberField describes one numeric agent parameter: its form path segment,
// label, input hints and accessor into AgentFields.
type NumberField struct {
	Key         string
	Label       string
	Kind        NumberKind
	Placeholder string
	Min         string
	Max         string

	ptr func(*AgentFields) *string
}

// Value returns the field's current text in a.
func (f NumberField) Value(a *AgentFields) string { return *f.ptr(a) }

// Ref returns a pointer to the field inside a, for binding to inputs.
func (f NumberField) Ref(a *AgentFields) *string { return f.ptr(a) }

var numberFields = []NumberField{
	{Key: "temperature", Label: "Temperature", Kind: Float, Placeholder: "0.7", Min: "0", Max: "2",
		ptr: func(a *AgentFields) *string { return &a.Temperature }},
	{Key: "maxTokens", Label: "Max Tokens", Kind: Integer, Placeholder: "1000", Min: "1",
		ptr: func(a *AgentFields) *string { return &a.MaxTokens }},
	{Key: "topP", Label: "Top P", Kind: Float, Placeholder: "0.9", Min: "0", Max: "1",
		ptr: func(a *AgentFields) *string { return &a.TopP }},
	{Key: "topK", Label: "Top K", Kind: Integer, Placeholder: "40", Min: "1",
		ptr: func(a *AgentFields) *string { return &a.TopK }},
	{Key: "minLength", Label: "Min Length", Kind: Integer, Placeholder: "0", Min: "0",
		ptr: func(a *AgentFields) *string { return &a.MinLength }},
	{Key: "maxLength", Label: "Max Length", Kind: Integer, Placeholder: "2000", Min: "1",
		ptr: func(a *AgentFields) *string { return &a.MaxLength }},
	{Key: "repetitionPenalty", Label: "Repetition Penalty", Kind: Float, Placeholder: "1.0", Min: "0", Max: "2",
		ptr: func(a *AgentFields) *string { return &a.RepetitionPenalty }},
	{Key: "frequencyPenalty", Label: "Frequency Penalty", Kind: Float, Placeholder: "0.0", Min: "0", Max: "2",
		ptr: func(a *AgentFields) *string { return &a.FrequencyPenalty }},
	{Key: "presencePenalty", Label: "Presence Penalty", Kind: Float, Placeholder: "0.0", Min: "0", Max: "2",
		ptr: func(a *AgentFields) *string { return &a.PresencePenalty }},
}

// NumberFields lists the numeric agent parameters in display order.
func NumberFields() []NumberField {
	out := make([]NumberField, len(numberFields))
	copy(out, numberFields)
	return out
}
