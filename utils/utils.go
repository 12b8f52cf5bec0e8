package utils

import (
	"os"
	"strings"
)

func FileExist(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

func CreateDirIfNotExist(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}
	}

	return nil
}

// ValueOrDefault returns value if it is one of allowed, otherwise fallback.
// Comparison is case-insensitive and ignores surrounding whitespace.
func ValueOrDefault(value string, allowed []string, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if value == candidate {
			return candidate
		}
	}

	return fallback
}
