package config

import "time"

// Config holds all process-level configuration for the hub daemon.
//
// This is distinct from the hub's own data configuration (the
// observation/state-preset document loaded at runtime through the
// Config service, see package hubconfig) — this struct only covers how
// the process itself is wired up: where it listens, how it logs, and
// the structural limits the tree enforces.
type Config struct {
	Server  ServerConfig  `yaml:"server" json:"server"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Tree    TreeConfig    `yaml:"tree" json:"tree"`
	Backup  BackupConfig  `yaml:"backup" json:"backup"`
}

// ServerConfig holds HTTP facade configuration.
type ServerConfig struct {
	Host           string        `yaml:"host" json:"host"`
	Port           int           `yaml:"port" json:"port"`
	Mode           string        `yaml:"mode" json:"mode"`
	ReadTimeout    time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
	MaxHeaderBytes int           `yaml:"maxHeaderBytes" json:"maxHeaderBytes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" json:"level"`
	Format   string `yaml:"format" json:"format"`
	FilePath string `yaml:"filePath" json:"filePath"`
}

// TreeConfig holds the structural limits of the resource tree (spec §6
// "Path rules").
type TreeConfig struct {
	MaxSegmentLength int `yaml:"maxSegmentLength" json:"maxSegmentLength"`
	MaxPathLength    int `yaml:"maxPathLength" json:"maxPathLength"`
}

// BackupConfig holds the observation buffer backup directory (spec §6
// "Persisted state").
type BackupConfig struct {
	Directory string `yaml:"directory" json:"directory"`
}

// DefaultConfig returns the configuration used when no file is loaded.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Mode:           "release",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			FilePath: "stdout",
		},
		Tree: TreeConfig{
			MaxSegmentLength: 32,
			MaxPathLength:    256,
		},
		Backup: BackupConfig{
			Directory: "/var/lib/datahub/backup",
		},
	}
}
