package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m mainLoopModel) updateDeadLetterList(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.tab = tabEntities
		m.loading = true
		return m, m.cmdLoadEntities(m.entityType)
	case "up":
		if m.dlIdx > 0 {
			m.dlIdx--
		}
	case "down":
		if m.dlIdx < len(m.deadLetters)-1 {
			m.dlIdx++
		}
	case "r":
		if len(m.deadLetters) == 0 {
			return m, nil
		}
		return m, m.cmdRequeue(m.deadLetters[m.dlIdx].ID)
	case "d":
		if len(m.deadLetters) == 0 {
			return m, nil
		}
		return m, m.cmdDiscard(m.deadLetters[m.dlIdx].ID)
	case "l":
		m.logout = true
		return m, tea.Quit
	}
	return m, nil
}

func (m mainLoopModel) viewDeadLetterList() string {
	out := m.statusLine() + "\n\n"

	if m.errMsg != "" {
		out += "Ошибка: " + m.errMsg + "\n"
	}
	if m.status != "" {
		out += "Статус: " + m.status + "\n"
	}

	if len(m.deadLetters) == 0 {
		out += "\nОтклонённых операций нет\n"
	} else {
		out += "\n    │ Операция                 │ Ошибка                         │ Отклонена\n"
		out += "────┼──────────────────────────┼────────────────────────────────┼──────────────────\n"
		for i, letter := range m.deadLetters {
			cursor := " "
			if i == m.dlIdx {
				cursor = ">"
			}
			out += fmt.Sprintf(
				"%s %-2d│ %-24s │ %-30s │ %s\n",
				cursor,
				i+1,
				fitText(string(letter.Name), 24),
				fitText(letter.LastError, 30),
				letter.FailedAt.Format("02.01.2006 15:04"),
			)
		}
	}

	return renderPage("ОТКЛОНЁННЫЕ ОПЕРАЦИИ", strings.TrimRight(out, "\n"), "r: повторить │ d: удалить │ tab: записи │ l: выйти из аккаунта")
}

func (m mainLoopModel) cmdRequeue(id string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.DeadLetterService

	return func() tea.Msg {
		err := svc.Requeue(ctx, id)
		return deadLetterActionMsg{requeued: true, err: err}
	}
}

func (m mainLoopModel) cmdDiscard(id string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.DeadLetterService

	return func() tea.Msg {
		err := svc.Discard(ctx, id)
		return deadLetterActionMsg{requeued: false, err: err}
	}
}
