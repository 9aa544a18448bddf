// Package password реализует хэширование и проверку паролей пользователей.
//
// Пароли никогда не сохраняются в открытом виде: в реестр попадает только
// bcrypt-хэш, а при входе введённый пароль сверяется с ним.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash возвращает bcrypt-хэш пароля для хранения в реестре.
func Hash(raw string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Verify сверяет сохранённый хэш с введённым паролем.
//
// Возвращает nil при совпадении, иначе ошибку.
func Verify(storedHash, raw string) error {
	const op = "password.Verify"
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(raw)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
