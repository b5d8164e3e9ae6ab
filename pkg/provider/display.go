package provider

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DisplayName returns the label shown for a provider in lists.
func DisplayName(c Config) string {
	return c.Name
}

// Tooltip returns the long label for a provider: the name alone when it
// matches the type, "name - type" otherwise.
func Tooltip(c Config) string {
	if c.Name == string(c.Type) {
		return c.Name
	}
	return c.Name + " - " + string(c.Type)
}

// IsValid reports whether a provider with the same name and type exists in
// providers.
func IsValid(c Config, providers []Config) bool {
	_, ok := Find(c, providers)
	return ok
}

// Find returns the provider in providers matching c by name and type.
func Find(c Config, providers []Config) (Config, bool) {
	for _, p := range providers {
		if p.Name == c.Name && p.Type == c.Type {
			return p, true
		}
	}
	return Config{}, false
}

// FindByName returns the first provider called name.
func FindByName(name string, providers []Config) (Config, bool) {
	for _, p := range providers {
		if p.Name == name {
			return p, true
		}
	}
	return Config{}, false
}

// Sort returns a copy of providers ordered by name using locale-aware
// collation.
func Sort(providers []Config) []Config {
	out := slices.Clone(providers)
	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b Config) int {
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

// SortModels returns a copy of models ordered by name using locale-aware
// collation.
func SortModels(models []ModelOption) []ModelOption {
	out := slices.Clone(models)
	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b ModelOption) int {
		return col.CompareString(a.Name, b.Name)
	})
	return out
}

// FormatPrice renders a model price as "$in/$out". A missing price, or one
// where both sides are zero, renders as "free".
func FormatPrice(p *Price) string {
	if p == nil || (p.Input == 0 && p.Output == 0) {
		return "free"
	}
	return "$" + formatPriceValue(p.Input) + "/$" + formatPriceValue(p.Output)
}

func formatPriceValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

var upperRun = regexp.MustCompile(`([A-Z])`)

// RoleDisplayName turns a camelCase agent role into words:
// "simpleJson" becomes "Simple Json".
func RoleDisplayName(role string) string {
	if role == "" {
		return ""
	}
	spaced := upperRun.ReplaceAllString(role, " $1")
	r := []rune(spaced)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
