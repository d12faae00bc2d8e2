package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// resolveModel is the conflict resolution sub-screen: a side-by-side view of
// the local and server versions, plus an optional merge editor.
type resolveModel struct {
	active   bool
	conflict models.ConflictRecord

	merging    bool
	mergeTitle textinput.Model
	mergeText  textarea.Model
	mergeFocus int

	busy   bool
	errMsg string
}

func (m mainLoopModel) updateConflictList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.tab = tabDeadLetters
		return m, m.cmdLoadDeadLetters()
	case "up":
		if m.conflictIdx > 0 {
			m.conflictIdx--
		}
	case "down":
		if m.conflictIdx < len(m.conflicts)-1 {
			m.conflictIdx++
		}
	case "enter":
		if len(m.conflicts) == 0 {
			return m, nil
		}
		m.resolve = resolveModel{active: true, conflict: m.conflicts[m.conflictIdx]}
		m.status = ""
		m.errMsg = ""
	case "l":
		m.logout = true
		return m, tea.Quit
	}
	return m, nil
}

func (m mainLoopModel) updateResolve(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.resolve.merging {
		return m.updateMergeEditor(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.resolve.busy {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.resolve = resolveModel{}
	case "l":
		m.resolve.busy = true
		return m, m.cmdResolve(m.resolve.conflict.ID, models.ResolutionKeepLocal, models.MergePatch{})
	case "s":
		m.resolve.busy = true
		return m, m.cmdResolve(m.resolve.conflict.ID, models.ResolutionKeepServer, models.MergePatch{})
	case "m":
		m.startMerge()
	case "c":
		if err := clipboard.WriteAll(m.resolve.conflict.ServerContent); err != nil {
			m.resolve.errMsg = fmt.Sprintf("Ошибка копирования: %v", err)
			return m, nil
		}
		m.status = "Скопировано"
	}
	return m, nil
}

func (m *mainLoopModel) startMerge() {
	title := textinput.New()
	title.CharLimit = 120
	title.SetValue(m.resolve.conflict.LocalTitle)
	title.Focus()

	text := textarea.New()
	text.SetWidth(60)
	text.SetHeight(10)
	// Prefill with the local version; the server text stays visible above
	// the editor for reference.
	text.SetValue(m.resolve.conflict.LocalContent)

	m.resolve.merging = true
	m.resolve.mergeTitle = title
	m.resolve.mergeText = text
	m.resolve.mergeFocus = 0
}

func (m mainLoopModel) updateMergeEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.resolve.merging = false
			return m, nil
		case "tab", "shift+tab":
			m.resolve.mergeFocus = (m.resolve.mergeFocus + 1) % 2
			if m.resolve.mergeFocus == 0 {
				m.resolve.mergeText.Blur()
				return m, m.resolve.mergeTitle.Focus()
			}
			m.resolve.mergeTitle.Blur()
			return m, m.resolve.mergeText.Focus()
		case "ctrl+s":
			if m.resolve.busy {
				return m, nil
			}
			title := strings.TrimSpace(m.resolve.mergeTitle.Value())
			if title == "" {
				m.resolve.errMsg = "Заголовок не может быть пустым"
				return m, nil
			}
			m.resolve.errMsg = ""
			m.resolve.busy = true
			patch := models.MergePatch{Title: title, Content: m.resolve.mergeText.Value()}
			return m, m.cmdResolve(m.resolve.conflict.ID, models.ResolutionMerge, patch)
		}
	}

	var cmd tea.Cmd
	if m.resolve.mergeFocus == 0 {
		m.resolve.mergeTitle, cmd = m.resolve.mergeTitle.Update(msg)
	} else {
		m.resolve.mergeText, cmd = m.resolve.mergeText.Update(msg)
	}
	return m, cmd
}

func (m mainLoopModel) viewConflictList() string {
	out := m.statusLine() + "\n\n"

	if m.errMsg != "" {
		out += "Ошибка: " + m.errMsg + "\n"
	}
	if m.status != "" {
		out += "Статус: " + m.status + "\n"
	}

	if len(m.conflicts) == 0 {
		out += "\nКонфликтов нет\n"
	} else {
		out += "\n    │ Запись                   │ Коллекция │ Обнаружен\n"
		out += "────┼──────────────────────────┼───────────┼──────────────────\n"
		for i, conflict := range m.conflicts {
			cursor := " "
			if i == m.conflictIdx {
				cursor = ">"
			}
			out += fmt.Sprintf(
				"%s %-2d│ %-24s │ %-9s │ %s\n",
				cursor,
				i+1,
				fitText(conflict.EntityTitle, 24),
				fitText(collectionLabel(conflict.EntityType), 9),
				conflict.CreatedAt.Format("02.01.2006 15:04"),
			)
		}
	}

	return renderPage("КОНФЛИКТЫ", strings.TrimRight(out, "\n"), "enter: разрешить │ tab: отклонённые │ l: выйти из аккаунта")
}

func (m mainLoopModel) viewResolve() string {
	conflict := m.resolve.conflict

	out := "Запись    : " + valueOrDash(conflict.EntityTitle) + "\n"
	out += "Коллекция : " + collectionLabel(conflict.EntityType) + "\n\n"

	out += "── ЛОКАЛЬНАЯ ВЕРСИЯ (" + clockLabel(conflict.LocalUpdatedAt) + ") " + uiDivider + "\n"
	out += "Заголовок: " + valueOrDash(conflict.LocalTitle) + "\n"
	out += conflict.LocalContent + "\n\n"

	out += "── СЕРВЕРНАЯ ВЕРСИЯ (" + clockLabel(conflict.ServerUpdatedAt) + ") " + uiDivider + "\n"
	out += "Заголовок: " + valueOrDash(conflict.ServerTitle) + "\n"
	out += conflict.ServerContent + "\n"

	if m.resolve.merging {
		out += "\n── ОБЪЕДИНЕНИЕ " + uiDivider + "\n"
		out += "Заголовок:\n" + m.resolve.mergeTitle.View() + "\n\n"
		out += "Содержимое:\n" + m.resolve.mergeText.View() + "\n"
	}

	if m.resolve.busy {
		out += "\nСохранение...\n"
	}
	if m.resolve.errMsg != "" {
		out += "\nОшибка: " + m.resolve.errMsg + "\n"
	}

	hotKeys := "l: оставить локальную │ s: взять серверную │ m: объединить │ c: копировать │ esc: назад"
	if m.resolve.merging {
		hotKeys = "ctrl+s: сохранить │ tab: след. поле │ esc: отмена"
	}

	return renderPage("РАЗРЕШЕНИЕ КОНФЛИКТА", strings.TrimRight(out, "\n"), hotKeys)
}

func (m mainLoopModel) cmdResolve(id string, choice models.Resolution, patch models.MergePatch) tea.Cmd {
	ctx := m.ctx
	svc := m.services.ConflictService

	return func() tea.Msg {
		err := svc.Resolve(ctx, id, choice, patch)
		return resolveDoneMsg{err: err}
	}
}
