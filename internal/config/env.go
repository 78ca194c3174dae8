package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv loads .env from the working directory and the config directory.
// Variables already present in the environment are never overridden.
func loadDotEnv(configDir string) error {
	var files []string
	seen := map[string]struct{}{}
	for _, dir := range []string{".", configDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		path, err := filepath.Abs(filepath.Join(dir, ".env"))
		if err != nil {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// firstEnv returns the first non-empty value among names.
func firstEnv(names ...string) string {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
