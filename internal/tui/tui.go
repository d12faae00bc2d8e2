// Package tui implements the terminal user interface of the client.
//
// It covers the authentication flow (menu, login, registration) and the main
// dashboard: collection browsing and editing, live synchronization status,
// conflict resolution, and the dead letter list.
package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/models"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("вышел из программы")

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services, buildInfo: buildInfo}, nil
}

// LoginFlow runs the authentication screens and blocks until the user is
// logged in or quits.
func (t *TUI) LoginFlow(ctx context.Context) error {
	pages := map[string]tea.Model{
		"menu":     NewMenuModel(),
		"login":    NewLoginModel(ctx, t.services.AuthService),
		"register": NewRegisterModel(ctx, t.services.AuthService),
	}

	root := NewRootModel(pages, "menu", t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return nil
}

// MainLoop runs the dashboard and blocks until the user exits. logout reports
// that the user asked to re-authenticate rather than quit.
func (t *TUI) MainLoop(ctx context.Context) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services)
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Push coordinator transitions into the running program so the status
	// line updates without polling.
	unsubscribe := t.services.Coordinator.Subscribe(func(snapshot models.CoordinatorSnapshot) {
		program.Send(coordinatorStatusMsg{snapshot: snapshot})
	})
	defer unsubscribe()

	finalModel, runErr := program.Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
