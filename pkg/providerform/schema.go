package providerform

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/germanamz/providerctl/pkg/provider"
)

// MaxNameLength is the longest provider name the backend accepts.
const MaxNameLength = 50

// Validation messages.
const (
	MsgTypeRequired  = "Provider type is required"
	MsgNameRequired  = "Provider name is required"
	MsgNameTooLong   = "Maximum 50 characters allowed"
	MsgModelRequired = "Model is required"
	MsgNotNumber     = "Expected number"
	MsgNotInteger    = "Expected integer"
)

// FieldError is a validation failure at a dotted form path such as
// "agents.coder.model".
type FieldError struct {
	Path    string
	Message string
}

// ValidationErrors lists every failure of a form in schema order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "providerform: no validation errors"
	}
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Path + ": " + e.Message
	}
	return "providerform: invalid form: " + strings.Join(parts, "; ")
}

// For returns the message recorded for path, or "".
func (v ValidationErrors) For(path string) string {
	for _, e := range v {
		if e.Path == path {
			return e.Message
		}
	}
	return ""
}

// Validate checks f against the provider form schema. It returns nil when the
// form is valid.
func Validate(f Form) ValidationErrors {
	var errs ValidationErrors
	add := func(path, msg string) {
		errs = append(errs, FieldError{Path: path, Message: msg})
	}

	if strings.TrimSpace(f.Type) == "" {
		add("type", MsgTypeRequired)
	}

	switch name := strings.TrimSpace(f.Name); {
	case name == "":
		add("name", MsgNameRequired)
	case utf8.RuneCountInString(f.Name) > MaxNameLength:
		add("name", MsgNameTooLong)
	}

	f.Agents.Each(func(key string, a AgentFields) bool {
		if provider.IsMetadataKey(key) {
			return true
		}
		base := "agents." + key + "."

		if strings.TrimSpace(a.Model) == "" {
			add(base+"model", MsgModelRequired)
		}
		for _, nf := range numberFields {
			if msg := checkNumber(nf.Value(&a), nf.Kind); msg != "" {
				add(base+nf.Key, msg)
			}
		}
		if a.Reasoning != nil {
			if msg := checkNumber(a.Reasoning.MaxTokens, Integer); msg != "" {
				add(base+"reasoning.maxTokens", msg)
			}
		}
		if a.Price != nil {
			if msg := checkNumber(a.Price.Input, Float); msg != "" {
				add(base+"price.input", msg)
			}
			if msg := checkNumber(a.Price.Output, Float); msg != "" {
				add(base+"price.output", msg)
			}
		}
		return true
	})

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkNumber(s string, kind NumberKind) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return MsgNotNumber
	}
	if kind == Integer {
		if _, err := strconv.Atoi(s); err != nil {
			return MsgNotInteger
		}
	}
	return ""
}

// parseFloat reads an optional float; empty or malformed text is unset.
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt reads an optional integer; empty or malformed text is unset.
func parseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// FieldLabel turns a dotted form path into a readable label:
// "agents.simpleJson.model" becomes "Agents → Simple Json → Model".
func FieldLabel(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = provider.RoleDisplayName(p)
	}
	return strings.Join(parts, " → ")
}

// FormatValidationErrors renders errs as the flattened bullet list shown when
// a test run is refused.
func FormatValidationErrors(errs ValidationErrors) string {
	var b strings.Builder
	b.WriteString("Please fix the following validation errors:\n\n")
	for i, e := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(FieldLabel(e.Path))
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}
