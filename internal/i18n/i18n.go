// Package i18n holds the user-facing message catalogs (English and Russian)
// and resolves a locale string to one of them.
package i18n

import (
	"os"
	"strings"
)

// Fallback is the locale used when the requested one has no catalog.
const Fallback = "en"

// Message keys.
const (
	KeyYouSure          = "exitConfirmation.youSure"
	KeyTitleYouSure     = "exitConfirmation.titleYouSure"
	KeySaveChanges      = "exitConfirmation.saveChanges"
	KeyTitleSaveChanges = "exitConfirmation.titleSaveChanges"
	KeyUnableToOpenFile = "unableToOpenFile"
	KeyError            = "error"
	KeyNewProject       = "newProject"
	KeyChangedOnDisk    = "changedOnDisk"

	KeyOverallProgress = "tui.overallProgress"
	KeyBlocked         = "tui.blocked"
	KeyDependencies    = "tui.dependencies"
	KeyNoTasks         = "tui.noTasks"
	KeyNoDependencies  = "tui.noDependencies"
	KeyNewTaskName     = "tui.newTaskName"
	KeyRenameTask      = "tui.renameTask"
	KeySaved           = "tui.saved"
	KeyUnsaved         = "tui.unsaved"
	KeyYesNo           = "tui.yesNo"
	KeySavePath        = "tui.savePath"
	KeyOpenPath        = "tui.openPath"
	KeyEditDescription = "tui.editDescription"
	KeyComputed        = "tui.computedProgress"
	KeyRemovedOnDisk   = "tui.removedOnDisk"
	KeyReloadHint      = "tui.reloadHint"
)

var catalogs = map[string]map[string]string{
	"en": {
		KeyYouSure:          "Are you sure? Unsaved changes will be lost.",
		KeyTitleYouSure:     "Unsaved changes",
		KeySaveChanges:      "Save changes to the current project first?",
		KeyTitleSaveChanges: "Save changes",
		KeyUnableToOpenFile: "Unable to open file",
		KeyError:            "Error",
		KeyNewProject:       "New project",
		KeyChangedOnDisk:    "The project file was changed by another program",

		KeyOverallProgress: "Overall progress",
		KeyBlocked:         "blocked",
		KeyDependencies:    "Dependencies",
		KeyNoTasks:         "No tasks here. Press a to add one.",
		KeyNoDependencies:  "No dependencies",
		KeyNewTaskName:     "New task name",
		KeyRenameTask:      "Rename task",
		KeySaved:           "Saved",
		KeyUnsaved:         "unsaved",
		KeyYesNo:           "[y/n]",
		KeySavePath:        "Save as",
		KeyOpenPath:        "Open file",
		KeyEditDescription: "Description",
		KeyComputed:        "Progress of a task with subtasks is computed from them",
		KeyRemovedOnDisk:   "The project file was removed from disk",
		KeyReloadHint:      "ctrl+r reloads it",
	},
	"ru": {
		KeyYouSure:          "Вы уверены? Несохранённые изменения будут потеряны.",
		KeyTitleYouSure:     "Несохранённые изменения",
		KeySaveChanges:      "Сохранить изменения в текущем проекте?",
		KeyTitleSaveChanges: "Сохранение изменений",
		KeyUnableToOpenFile: "Не удалось открыть файл",
		KeyError:            "Ошибка",
		KeyNewProject:       "Новый проект",
		KeyChangedOnDisk:    "Файл проекта был изменён другой программой",

		KeyOverallProgress: "Общий прогресс",
		KeyBlocked:         "заблокировано",
		KeyDependencies:    "Зависимости",
		KeyNoTasks:         "Здесь нет задач. Нажмите a, чтобы добавить.",
		KeyNoDependencies:  "Нет зависимостей",
		KeyNewTaskName:     "Название новой задачи",
		KeyRenameTask:      "Переименовать задачу",
		KeySaved:           "Сохранено",
		KeyUnsaved:         "не сохранено",
		KeyYesNo:           "[y/n]",
		KeySavePath:        "Сохранить как",
		KeyOpenPath:        "Открыть файл",
		KeyEditDescription: "Описание",
		KeyComputed:        "Прогресс задачи с подзадачами вычисляется по ним",
		KeyRemovedOnDisk:   "Файл проекта был удалён с диска",
		KeyReloadHint:      "ctrl+r перезагрузит его",
	},
}

// Localizer translates message keys.
type Localizer interface {
	T(key string) string
}

// Catalog is the message table for one locale.
type Catalog struct {
	locale   string
	messages map[string]string
}

// New returns the catalog for locale. Forms like "ru", "ru-RU" and
// "ru_RU.UTF-8" all resolve to "ru"; unknown locales fall back to English.
func New(locale string) *Catalog {
	lang := Normalize(locale)
	messages, ok := catalogs[lang]
	if !ok {
		lang = Fallback
		messages = catalogs[Fallback]
	}
	return &Catalog{locale: lang, messages: messages}
}

// FromEnv picks the locale from LC_ALL, LC_MESSAGES or LANG, in that order.
func FromEnv() *Catalog {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(name); v != "" {
			return New(v)
		}
	}
	return New(Fallback)
}

// Normalize reduces a locale string to its lowercase language code.
func Normalize(locale string) string {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, "-_.@"); i >= 0 {
		locale = locale[:i]
	}
	return strings.ToLower(locale)
}

// Locales returns the supported language codes.
func Locales() []string {
	return []string{"en", "ru"}
}

// Locale returns the resolved language code.
func (c *Catalog) Locale() string {
	return c.locale
}

// T returns the message for key, then the English message, then key itself.
func (c *Catalog) T(key string) string {
	if msg, ok := c.messages[key]; ok {
		return msg
	}
	if msg, ok := catalogs[Fallback][key]; ok {
		return msg
	}
	return key
}
