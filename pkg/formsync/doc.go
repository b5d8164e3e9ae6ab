// Package formsync reconciles a provider form with the values it depends on:
// the editor route and its query parameters, the fetched catalog and the
// selected provider type.
//
// All rules run in one ordered step, [Controller.Reconcile], which applies
// form changes in place and returns the route changes for the caller to
// perform. Running the step again with unchanged inputs does nothing.
package formsync
