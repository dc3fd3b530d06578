package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// EnsureParentDir создаёт родительскую директорию файла, если её ещё нет.
func EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// GetEnv возвращает значение переменной окружения или fallback, если она пуста.
func GetEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
