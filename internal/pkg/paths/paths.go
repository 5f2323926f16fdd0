// Package paths resolves where the analyst keeps its data and logs.
// A compiled binary keeps them next to the executable; go run keeps them
// under the working directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	basePath string
	dataPath string
	once     sync.Once
)

// IsBinaryMode returns true if running as a compiled binary (not go run).
func IsBinaryMode() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	// go run builds into the temp dir
	return !strings.HasPrefix(exe, os.TempDir())
}

// GetBasePath returns the base path for the application.
func GetBasePath() string {
	once.Do(initPaths)
	return basePath
}

// GetDataPath returns the data directory path.
// Creates the directory if it doesn't exist.
func GetDataPath() string {
	once.Do(initPaths)
	return dataPath
}

// GetDBPath returns the full path to the cache database file.
func GetDBPath() string {
	return filepath.Join(GetDataPath(), "m_league.db")
}

// GetLogDir returns the directory for rotated log files.
func GetLogDir() string {
	if dir := os.Getenv("MLEAGUE_LOGS_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(GetBasePath(), "logs")
}

func initPaths() {
	if IsBinaryMode() {
		exe, _ := os.Executable()
		basePath = filepath.Dir(exe)
	} else {
		basePath, _ = os.Getwd()
	}

	if dp := os.Getenv("MLEAGUE_DATA_DIR"); dp != "" {
		dataPath = dp
	} else {
		dataPath = filepath.Join(basePath, "data")
	}

	_ = os.MkdirAll(dataPath, 0755)
}
