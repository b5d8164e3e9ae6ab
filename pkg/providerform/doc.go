// Package providerform holds the editable state of a provider configuration
// and the pure functions around it: schema validation, conversion to the
// mutation payload, agent role resolution and model catalog filtering.
//
// Numbers are kept as text. An empty string and an unset value are the same
// thing both when a form is seeded from a stored provider and when a payload
// is built from the form.
package providerform
