//go:build windows

package config

import (
	"os"
	"path/filepath"
)

func configSearchPaths() []string {
	return []string{
		filepath.Join(os.Getenv("LOCALAPPDATA"), "sysfacts", "config.yaml"),
		filepath.Join(os.Getenv("ProgramData"), "sysfacts", "config.yaml"),
	}
}
