// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// editorModel is the shared add/edit form for all three collections. It is
// embedded in mainLoopModel and active while a record is being composed.
type editorModel struct {
	active  bool
	isNew   bool
	entity  models.Entity
	title   textinput.Model
	content textarea.Model
	focus   int
	saving  bool
	errMsg  string
}

func newEditor(entityType models.EntityType) editorModel {
	title := textinput.New()
	title.Placeholder = "Заголовок"
	title.CharLimit = 120
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Текст записи"
	content.SetWidth(60)
	content.SetHeight(8)

	return editorModel{
		active:  true,
		isNew:   true,
		entity:  models.Entity{Type: entityType},
		title:   title,
		content: content,
	}
}

func (m *mainLoopModel) startCreate() {
	m.editor = newEditor(m.entityType)
	m.status = ""
	m.errMsg = ""
}

func (m *mainLoopModel) startEdit(entity models.Entity) {
	editor := newEditor(entity.Type)
	editor.isNew = false
	editor.entity = entity
	editor.title.SetValue(entity.Title)
	editor.content.SetValue(entity.Content)
	m.editor = editor
	m.status = ""
	m.errMsg = ""
}

func (m mainLoopModel) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.editor = editorModel{}
			return m, nil
		case "tab", "shift+tab":
			m.editor.focus = (m.editor.focus + 1) % 2
			if m.editor.focus == 0 {
				m.editor.content.Blur()
				return m, m.editor.title.Focus()
			}
			m.editor.title.Blur()
			return m, m.editor.content.Focus()
		case "ctrl+s":
			return m.submitEditor()
		case "enter":
			// Enter submits from the title field; the textarea keeps it
			// for line breaks.
			if m.editor.focus == 0 {
				return m.submitEditor()
			}
		}
	}

	var cmd tea.Cmd
	if m.editor.focus == 0 {
		m.editor.title, cmd = m.editor.title.Update(msg)
	} else {
		m.editor.content, cmd = m.editor.content.Update(msg)
	}
	return m, cmd
}

func (m mainLoopModel) submitEditor() (tea.Model, tea.Cmd) {
	if m.editor.saving {
		return m, nil
	}

	title := strings.TrimSpace(m.editor.title.Value())
	if title == "" {
		m.editor.errMsg = "Заголовок не может быть пустым"
		return m, nil
	}

	m.editor.errMsg = ""
	m.editor.saving = true

	content := m.editor.content.Value()
	if m.editor.isNew {
		return m, m.cmdCreate(m.editor.entity.Type, title, content)
	}

	entity := m.editor.entity
	entity.Title = title
	entity.Content = content
	return m, m.cmdUpdate(entity)
}

func (m mainLoopModel) viewEditor() string {
	title := "НОВАЯ ЗАПИСЬ"
	if !m.editor.isNew {
		title = "РЕДАКТИРОВАНИЕ ЗАПИСИ"
	}

	out := "Коллекция: " + collectionLabel(m.editor.entity.Type) + "\n\n"
	out += "Заголовок:\n" + m.editor.title.View() + "\n\n"
	out += "Содержимое:\n" + m.editor.content.View() + "\n"

	if m.editor.saving {
		out += "\nСохранение...\n"
	}
	if m.editor.errMsg != "" {
		out += "\nОшибка: " + m.editor.errMsg + "\n"
	}

	return renderPage(title, strings.TrimRight(out, "\n"), "ctrl+s: сохранить │ tab: след. поле │ esc: отмена")
}

func (m mainLoopModel) cmdCreate(entityType models.EntityType, title, content string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.EntityService

	return func() tea.Msg {
		_, result, err := svc.Create(ctx, entityType, title, content, models.ExtraFields{})
		return mutationDoneMsg{result: result, err: err}
	}
}
