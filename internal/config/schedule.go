package config

import (
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Schedule holds the daemon's cron expressions. It mirrors the crontab
// the jobs were historically run from: nightly database backup, weekly
// full file backup, daily cleanup pass.
type Schedule struct {
	DatabaseBackup string `yaml:"database_backup"`
	FilesBackup    string `yaml:"files_backup"`
	Cleanup        string `yaml:"cleanup"`
	ListenAddr     string `yaml:"listen_addr"`
}

func DefaultSchedule() Schedule {
	return Schedule{
		DatabaseBackup: "0 2 * * *",
		FilesBackup:    "0 3 * * 0",
		Cleanup:        "30 3 * * *",
		ListenAddr:     ":8746",
	}
}

// LoadSchedule reads the YAML schedule file, falling back to defaults
// for any expression left empty.
func LoadSchedule(path string) (Schedule, error) {
	s := DefaultSchedule()
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Schedule{}, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Schedule{}, fmt.Errorf("invalid schedule file %s: %w", path, err)
	}

	def := DefaultSchedule()
	if s.DatabaseBackup == "" {
		s.DatabaseBackup = def.DatabaseBackup
	}
	if s.FilesBackup == "" {
		s.FilesBackup = def.FilesBackup
	}
	if s.Cleanup == "" {
		s.Cleanup = def.Cleanup
	}
	if s.ListenAddr == "" {
		s.ListenAddr = def.ListenAddr
	}

	return s, s.Validate()
}

func (s Schedule) Validate() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, expr := range map[string]string{
		"database_backup": s.DatabaseBackup,
		"files_backup":    s.FilesBackup,
		"cleanup":         s.Cleanup,
	} {
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("invalid cron expression for %s: %w", name, err)
		}
	}
	return nil
}
