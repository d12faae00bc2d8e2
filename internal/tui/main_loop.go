package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-note-keeper/internal/service"
	"github.com/MKhiriev/go-note-keeper/models"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type mainTab int

const (
	tabEntities mainTab = iota
	tabConflicts
	tabDeadLetters
)

type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices

	tab mainTab

	// snapshot is the latest coordinator state pushed via subscription.
	snapshot     models.CoordinatorSnapshot
	haveSnapshot bool

	entityType models.EntityType
	entities   []models.Entity
	idx        int
	loading    bool
	detail     bool

	editor editorModel

	conflicts   []models.ConflictRecord
	conflictIdx int
	resolve     resolveModel

	deadLetters []models.DeadLetterRecord
	dlIdx       int

	syncing bool
	status  string
	errMsg  string
	logout  bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices) mainLoopModel {
	return mainLoopModel{
		ctx:        ctx,
		services:   services,
		entityType: models.EntityItems,
		loading:    true,
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadEntities(m.entityType), m.cmdLoadConflicts(), m.cmdLoadDeadLetters())
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case coordinatorStatusMsg:
		m.snapshot = msg.snapshot
		m.haveSnapshot = true
		return m, nil

	case entitiesLoadedMsg:
		if msg.entityType != m.entityType {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.entities = msg.entities
		if m.idx >= len(m.entities) {
			m.idx = len(m.entities) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case conflictsLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.conflicts = msg.conflicts
		if m.conflictIdx >= len(m.conflicts) {
			m.conflictIdx = len(m.conflicts) - 1
		}
		if m.conflictIdx < 0 {
			m.conflictIdx = 0
		}
		return m, nil

	case deadLettersLoadedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.deadLetters = msg.deadLetters
		if m.dlIdx >= len(m.deadLetters) {
			m.dlIdx = len(m.deadLetters) - 1
		}
		if m.dlIdx < 0 {
			m.dlIdx = 0
		}
		return m, nil

	case mutationDoneMsg:
		m.editor.saving = false
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.editor = editorModel{}
		m.errMsg = ""
		if msg.result.Queued {
			m.status = "Изменение сохранено локально и поставлено в очередь"
		} else {
			m.status = "Изменение отправлено на сервер"
		}
		m.loading = true
		// A rejected push may have produced a new ledger entry.
		return m, tea.Batch(m.cmdLoadEntities(m.entityType), m.cmdLoadConflicts())

	case drainDoneMsg:
		m.syncing = false
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
		} else {
			m.status = "Синхронизация завершена"
			m.errMsg = ""
		}
		m.loading = true
		return m, tea.Batch(m.cmdLoadEntities(m.entityType), m.cmdLoadConflicts(), m.cmdLoadDeadLetters())

	case resolveDoneMsg:
		m.resolve.busy = false
		if msg.err != nil {
			m.errMsg = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.resolve = resolveModel{}
		m.status = "Конфликт разрешён"
		m.errMsg = ""
		return m, tea.Batch(m.cmdLoadConflicts(), m.cmdLoadEntities(m.entityType))

	case deadLetterActionMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		if msg.requeued {
			m.status = "Операция возвращена в очередь"
		} else {
			m.status = "Операция удалена"
		}
		m.errMsg = ""
		return m, m.cmdLoadDeadLetters()
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editor.active {
			return m.updateEditor(msg)
		}
		if m.resolve.merging {
			return m.updateMergeEditor(msg)
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.editor.active {
		return m.updateEditor(msg)
	}
	if m.resolve.active {
		return m.updateResolve(msg)
	}

	switch m.tab {
	case tabConflicts:
		return m.updateConflictList(keyMsg)
	case tabDeadLetters:
		return m.updateDeadLetterList(keyMsg)
	default:
		return m.updateEntities(keyMsg)
	}
}

func (m mainLoopModel) updateEntities(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail {
		return m.updateDetail(keyMsg)
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.tab = tabConflicts
		return m, m.cmdLoadConflicts()
	case "1":
		return m.switchCollection(models.EntityItems)
	case "2":
		return m.switchCollection(models.EntityTasks)
	case "3":
		return m.switchCollection(models.EntityJournal)
	case "up":
		if m.idx > 0 {
			m.idx--
		}
	case "down":
		if m.idx < len(m.entities)-1 {
			m.idx++
		}
	case "a":
		m.startCreate()
		return m, nil
	case "e":
		entity, ok := m.current()
		if !ok {
			m.status = "Нет записей"
			return m, nil
		}
		m.startEdit(entity)
		return m, nil
	case "ctrl+d":
		entity, ok := m.current()
		if !ok {
			m.status = "Нет записей"
			return m, nil
		}
		return m, m.cmdDelete(entity.Type, entity.ID)
	case "s":
		if m.syncing {
			return m, nil
		}
		m.syncing = true
		m.status = "Синхронизация..."
		m.errMsg = ""
		return m, m.cmdDrain()
	case "enter":
		if _, ok := m.current(); !ok {
			m.status = "Нет записей"
			return m, nil
		}
		m.detail = true
	case "l":
		m.logout = true
		return m, tea.Quit
	}

	return m, nil
}

func (m mainLoopModel) updateDetail(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entity, ok := m.current()
	if !ok {
		m.detail = false
		return m, nil
	}

	switch keyMsg.String() {
	case "esc", "q":
		m.detail = false
	case "e":
		m.detail = false
		m.startEdit(entity)
		return m, nil
	case "ctrl+d":
		m.detail = false
		return m, m.cmdDelete(entity.Type, entity.ID)
	case "x":
		if entity.Type != models.EntityTasks {
			return m, nil
		}
		done := entity.Extra.Done == nil || !*entity.Extra.Done
		entity.Extra.Done = &done
		return m, m.cmdUpdate(entity)
	case "c":
		if err := clipboard.WriteAll(entity.Content); err != nil {
			m.errMsg = fmt.Sprintf("Ошибка копирования: %v", err)
			return m, nil
		}
		m.status = "Скопировано"
	}
	return m, nil
}

func (m mainLoopModel) switchCollection(entityType models.EntityType) (tea.Model, tea.Cmd) {
	if m.entityType == entityType {
		return m, nil
	}
	m.entityType = entityType
	m.idx = 0
	m.detail = false
	m.loading = true
	return m, m.cmdLoadEntities(entityType)
}

func (m mainLoopModel) current() (models.Entity, bool) {
	if len(m.entities) == 0 || m.idx < 0 || m.idx >= len(m.entities) {
		return models.Entity{}, false
	}
	return m.entities[m.idx], true
}

func (m mainLoopModel) View() string {
	if m.editor.active {
		return m.viewEditor()
	}
	if m.resolve.active {
		return m.viewResolve()
	}

	switch m.tab {
	case tabConflicts:
		return m.viewConflictList()
	case tabDeadLetters:
		return m.viewDeadLetterList()
	}

	if m.detail {
		return m.viewDetail()
	}
	return m.viewEntityList()
}

func (m mainLoopModel) viewEntityList() string {
	out := m.statusLine() + "\n\n"

	if m.loading {
		out += "Загрузка списка...\n"
		return renderPage(m.listTitle(), strings.TrimRight(out, "\n"), entityListHotKeys)
	}

	if m.errMsg != "" {
		out += "Ошибка: " + m.errMsg + "\n"
	}
	if m.status != "" {
		out += "Статус: " + m.status + "\n"
	}

	if len(m.entities) == 0 {
		out += "\nЗаписей нет\n"
	} else {
		out += "\nID   │ Заголовок                │ Изменено\n"
		out += "─────┼──────────────────────────┼──────────────────\n"
		for i, entity := range m.entities {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}

			marker := ""
			if entity.Type == models.EntityTasks && entity.Extra.Done != nil && *entity.Extra.Done {
				marker = " [x]"
			}

			out += fmt.Sprintf(
				"%s %-3d│ %-24s │ %s%s\n",
				cursor,
				i+1,
				fitText(entity.Title, 24),
				clockLabel(entity.UpdatedAt),
				marker,
			)
		}
	}

	return renderPage(m.listTitle(), strings.TrimRight(out, "\n"), entityListHotKeys)
}

const entityListHotKeys = "1/2/3: коллекция │ a: добавить │ s: синхр. │ enter: открыть │ e: изм. │ ctrl+d: уд. │ tab: конфликты"

func (m mainLoopModel) viewDetail() string {
	entity, ok := m.current()
	if !ok {
		return renderPage("ПРОСМОТР ЗАПИСИ", "Запись не найдена", "esc: назад")
	}

	out := m.statusLine() + "\n\n"
	out += "Заголовок : " + valueOrDash(entity.Title) + "\n"
	out += "Коллекция : " + collectionLabel(entity.Type) + "\n"
	out += "Изменено  : " + clockLabel(entity.UpdatedAt) + "\n"
	if entity.Type == models.EntityTasks {
		done := "нет"
		if entity.Extra.Done != nil && *entity.Extra.Done {
			done = "да"
		}
		out += "Выполнено : " + done + "\n"
	}
	out += "\n" + entity.Content + "\n"

	hotKeys := "esc: назад │ e: изм. │ ctrl+d: уд. │ c: копировать"
	if entity.Type == models.EntityTasks {
		hotKeys += " │ x: выполнено"
	}

	return renderPage("ПРОСМОТР ЗАПИСИ", strings.TrimRight(out, "\n"), hotKeys)
}

func (m mainLoopModel) listTitle() string {
	return "КОЛЛЕКЦИЯ: " + strings.ToUpper(collectionLabel(m.entityType))
}

func collectionLabel(t models.EntityType) string {
	switch t {
	case models.EntityItems:
		return "Заметки"
	case models.EntityTasks:
		return "Задачи"
	case models.EntityJournal:
		return "Дневник"
	default:
		return string(t)
	}
}

func (m mainLoopModel) statusLine() string {
	if !m.haveSnapshot {
		if m.syncing {
			return "Сеть: ? │ Статус: синхронизация..."
		}
		return "Сеть: ? │ Статус: ?"
	}

	network := "офлайн"
	if m.snapshot.IsOnline {
		network = "онлайн"
	}

	line := fmt.Sprintf("Сеть: %s │ Статус: %s │ Очередь: %d",
		network, syncStatusLabel(m.snapshot.Status), m.snapshot.QueueLength)

	if m.snapshot.Status == models.StatusSyncing && m.snapshot.Progress.Total > 0 {
		line += fmt.Sprintf(" │ Прогресс: %d/%d", m.snapshot.Progress.Completed, m.snapshot.Progress.Total)
	}
	if len(m.conflicts) > 0 {
		line += fmt.Sprintf(" │ Конфликтов: %d", len(m.conflicts))
	}

	return line
}

func syncStatusLabel(s models.SyncStatus) string {
	switch s {
	case models.StatusSynced:
		return "синхронизировано"
	case models.StatusSyncing:
		return "синхронизация"
	case models.StatusOffline:
		return "офлайн"
	case models.StatusFailed:
		return "ошибка"
	default:
		return string(s)
	}
}

func (m mainLoopModel) cmdLoadEntities(entityType models.EntityType) tea.Cmd {
	ctx := m.ctx
	svc := m.services.EntityService

	return func() tea.Msg {
		entities, err := svc.List(ctx, entityType)
		return entitiesLoadedMsg{entityType: entityType, entities: entities, err: err}
	}
}

func (m mainLoopModel) cmdLoadConflicts() tea.Cmd {
	ctx := m.ctx
	svc := m.services.ConflictService

	return func() tea.Msg {
		conflicts, err := svc.List(ctx)
		return conflictsLoadedMsg{conflicts: conflicts, err: err}
	}
}

func (m mainLoopModel) cmdLoadDeadLetters() tea.Cmd {
	ctx := m.ctx
	svc := m.services.DeadLetterService

	return func() tea.Msg {
		deadLetters, err := svc.List(ctx)
		return deadLettersLoadedMsg{deadLetters: deadLetters, err: err}
	}
}

func (m mainLoopModel) cmdDrain() tea.Cmd {
	ctx := m.ctx
	coordinator := m.services.Coordinator

	return func() tea.Msg {
		err := coordinator.DrainQueue(ctx)
		return drainDoneMsg{err: err}
	}
}

func (m mainLoopModel) cmdDelete(entityType models.EntityType, id string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.EntityService

	return func() tea.Msg {
		result, err := svc.Delete(ctx, entityType, id)
		return mutationDoneMsg{result: result, err: err}
	}
}

func (m mainLoopModel) cmdUpdate(entity models.Entity) tea.Cmd {
	ctx := m.ctx
	svc := m.services.EntityService

	return func() tea.Msg {
		result, err := svc.Update(ctx, entity)
		return mutationDoneMsg{result: result, err: err}
	}
}
