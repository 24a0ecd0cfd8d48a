package shop

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// Messenger доставляет narration игроку: цены, требования, благодарности,
// гнев. Доставка чисто наблюдательная — логика подсистемы не зависит от
// успеха доставки.
type Messenger interface {
	// Say выводит строку narration.
	Say(format string, args ...any)
}

// SlogMessenger — Messenger по умолчанию: пишет narration в slog.
// Используется в тестах и в headless-режимах сервера.
type SlogMessenger struct{}

// Say implements Messenger.
func (m *SlogMessenger) Say(format string, args ...any) {
	slog.Info("narration", "text", fmt.Sprintf(format, args...))
}

// gold форматирует сумму с разделителями: "1,234 gold pieces".
func gold(amount int64) string {
	if amount == 1 {
		return "1 gold piece"
	}
	return humanize.Comma(amount) + " gold pieces"
}
