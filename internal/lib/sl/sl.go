// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
