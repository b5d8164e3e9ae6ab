// Package editor orchestrates one provider editor session: loading the
// catalog, keeping the form synchronized through formsync, and running the
// submit, test and delete actions against a Backend.
//
// Every action follows the same path through the session state:
// idle, validating, then submitting, testing or deleting, and back to idle
// or to error. An error is cleared by the next user action. Validation
// failures never reach the backend.
package editor
