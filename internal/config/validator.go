package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

const localhostHost = "localhost"

// Common errors.
var (
	ErrEmptyValue         = errors.New("value cannot be empty")
	ErrDirectoryNotExists = errors.New("directory does not exist")
	ErrInvalidPort        = errors.New("invalid port number")
	ErrInvalidTimeout     = errors.New("invalid timeout value")
	ErrInvalidFormat      = errors.New("invalid format")
)

// Validate checks if the configuration is valid.
func Validate(cfg *Config) error {
	if err := ValidateServer(cfg.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := ValidateLogging(cfg.Logging); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	if err := ValidateTree(cfg.Tree); err != nil {
		return fmt.Errorf("tree config: %w", err)
	}

	if err := ValidateBackup(cfg.Backup); err != nil {
		return fmt.Errorf("backup config: %w", err)
	}

	return nil
}

// ValidateServer validates server configuration.
func ValidateServer(server ServerConfig) error {
	if server.Host != "" {
		if ip := net.ParseIP(server.Host); ip == nil && server.Host != localhostHost {
			if _, err := net.LookupHost(server.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if server.Port < 1 || server.Port > 65535 {
		return fmt.Errorf("port %d: %w", server.Port, ErrInvalidPort)
	}

	if server.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout: %w", ErrInvalidTimeout)
	}

	if server.WriteTimeout <= 0 {
		return fmt.Errorf("write timeout: %w", ErrInvalidTimeout)
	}

	return nil
}

// ValidateLogging validates logging configuration.
func ValidateLogging(logging LoggingConfig) error {
	validLevels := map[string]bool{
		"debug":  true,
		"info":   true,
		"warn":   true,
		"error":  true,
		"dpanic": true,
		"panic":  true,
		"fatal":  true,
	}

	if !validLevels[strings.ToLower(logging.Level)] {
		return fmt.Errorf("log level %s: %w", logging.Level, ErrInvalidFormat)
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[strings.ToLower(logging.Format)] {
		return fmt.Errorf("log format %s: %w", logging.Format, ErrInvalidFormat)
	}

	return nil
}

// ValidateTree validates the resource-tree structural limits.
func ValidateTree(tree TreeConfig) error {
	if tree.MaxSegmentLength < 1 {
		return fmt.Errorf("max segment length must be at least 1")
	}

	if tree.MaxPathLength < tree.MaxSegmentLength {
		return fmt.Errorf("max path length must be at least max segment length")
	}

	return nil
}

// ValidateBackup validates the observation backup directory.
func ValidateBackup(backup BackupConfig) error {
	if backup.Directory == "" {
		return fmt.Errorf("backup directory: %w", ErrEmptyValue)
	}

	if err := checkDirWritable(backup.Directory); err != nil {
		return fmt.Errorf("backup directory: %w", err)
	}

	return nil
}

// checkDirWritable checks if a directory exists and is writable, creating
// it if it does not yet exist.
func checkDirWritable(path string) error {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(path, 0o755); mkErr != nil {
			return fmt.Errorf("%s: %w", path, ErrDirectoryNotExists)
		}
		fi, err = os.Stat(path)
	}
	if err != nil {
		return fmt.Errorf("accessing %s: %w", path, err)
	}

	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}

	tempFile := filepath.Join(path, ".datahub-write-test")
	f, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("directory %s is not writable: %w", path, err)
	}
	f.Close()
	os.Remove(tempFile)

	return nil
}
