// Package localstore реализует локальное key-value хранилище на файлах:
// каждый ключ — отдельный JSON-документ в каталоге данных. Запись выполняется
// атомарно через временный файл и rename, доступ сериализуется мьютексом.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store — каталог с JSON-документами, по одному на ключ.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open создает каталог данных при необходимости и возвращает хранилище.
func Open(dir string) (*Store, error) {
	const op = "localstore.Open"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{dir: dir}, nil
}

// Get читает значение по ключу в dest. Возвращает false без ошибки,
// если ключ отсутствует.
func (s *Store) Get(key string, dest any) (bool, error) {
	const op = "localstore.Get"
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// Set сериализует значение и атомарно заменяет документ ключа.
func (s *Store) Set(key string, value any) error {
	const op = "localstore.Set"
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err = tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = os.Rename(tmp.Name(), s.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет документ ключа. Отсутствующий ключ не считается ошибкой.
func (s *Store) Delete(key string) error {
	const op = "localstore.Delete"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
