package tui

import (
	"github.com/MKhiriev/go-note-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the active page of the login-flow router.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// LoginResult finishes the login page's async command.
type LoginResult struct {
	Err      error
	Username string
}

// RegisterResult finishes the registration page's async command.
type RegisterResult struct {
	Err      error
	Username string
}

// RegisterSuccessNotice is shown on the menu after a successful registration.
type RegisterSuccessNotice struct {
	Username string
}

// coordinatorStatusMsg delivers a coordinator state change pushed from the
// subscription callback.
type coordinatorStatusMsg struct {
	snapshot models.CoordinatorSnapshot
}

type entitiesLoadedMsg struct {
	entityType models.EntityType
	entities   []models.Entity
	err        error
}

type conflictsLoadedMsg struct {
	conflicts []models.ConflictRecord
	err       error
}

type deadLettersLoadedMsg struct {
	deadLetters []models.DeadLetterRecord
	err         error
}

type mutationDoneMsg struct {
	result models.MutationResult
	err    error
}

type drainDoneMsg struct {
	err error
}

type resolveDoneMsg struct {
	err error
}

type deadLetterActionMsg struct {
	requeued bool
	err      error
}
