package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "todo"

	// Version is reported by the version command
	Version = "0.3.0"

	// DatabaseFile is the default SQLite file name inside the application directory
	DatabaseFile = "todos.db"

	// BoltFile is the default bolt file name inside the application directory
	BoltFile = "todos.bolt"

	// ConfigFile is the default config file name inside the application directory
	ConfigFile = "config.ini"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the todo configuration directory path.
// Linux: ~/.config/todo (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\todo (via os.UserCacheDir)
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
}
