// Package iofs creates the directories and files gnfixture keeps in the
// user's home directory.
package iofs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/gnames/gnfixture/pkg/config"
)

//go:embed config.yaml
var ConfigYAML string

func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	// Write embedded config.yaml to the config directory
	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// DSNFilePath returns the file where a running fixture publishes its
// connection string.
func DSNFilePath(homeDir, name string) string {
	return filepath.Join(config.CacheDir(homeDir), name+".dsn")
}

// WriteDSN publishes the connection string of a running fixture so
// other processes can find it. The file is readable only by the owner,
// the DSN contains a password.
func WriteDSN(homeDir, name, dsn string) (string, error) {
	path := DSNFilePath(homeDir, name)
	if err := os.WriteFile(path, []byte(dsn+"\n"), 0600); err != nil {
		return "", CopyFileError(path, err)
	}
	return path, nil
}

// RemoveDSN deletes the file written by WriteDSN. A missing file is
// not an error.
func RemoveDSN(homeDir, name string) error {
	path := DSNFilePath(homeDir, name)
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return RemoveFileError(path, err)
	}
	return nil
}
