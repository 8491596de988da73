package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

type Engine string

const (
	EngineSQLServer Engine = "sqlserver"
	EnginePostgres  Engine = "postgres"
	EngineSQLite    Engine = "sqlite"
)

type Config struct {
	// BackupDir is the base directory for all artifacts. Database dumps,
	// file archives and audit archives land in subdirectories of it.
	BackupDir string `validate:"required"`

	// UploadDir is the document storage tree backed up by the files job.
	UploadDir string `validate:"required"`

	DatabaseEngine   Engine `validate:"required,oneof=sqlserver postgres sqlite"`
	DatabaseServer   string
	DatabaseName     string `validate:"required"`
	DatabaseUser     string
	DatabasePassword string
	// DatabaseDSN is the connection string used by the cleanup jobs and
	// the catalog. For sqlite it is the database file path.
	DatabaseDSN string `validate:"required"`

	// CatalogPath is the sqlite file holding artifact and run records.
	CatalogPath string `validate:"required"`

	DatabaseRetentionDays int `validate:"min=1"`
	FilesRetentionDays    int `validate:"min=1"`
	TrashRetentionDays    int `validate:"min=1"`
	AuditLogRetentionDays int `validate:"min=1"`

	CompressFileBackups bool
	VerifyBackups       bool

	SendBackupNotifications bool
	BackupNotificationEmail string `validate:"omitempty,email"`
	SMTPHost                string
	SMTPPort                int
	SMTPUser                string
	SMTPPassword            string
	SMTPFrom                string

	// Object storage is optional; when the endpoint is empty artifacts
	// stay on the local filesystem only.
	ObjectStorageEndpoint  string
	ObjectStorageKeyID     string
	ObjectStorageSecretKey string
	ObjectStorageRegion    string

	// MinFreeDiskBytes aborts a backup before it starts when the backup
	// directory's filesystem has less free space than this.
	MinFreeDiskBytes uint64
}

func New() Config {
	return Config{
		BackupDir:               getEnv("BACKUP_DIR", "/var/gedops/backups"),
		UploadDir:               getEnv("UPLOAD_DIR", "/var/ged/uploads"),
		DatabaseEngine:          Engine(getEnv("DATABASE_ENGINE", string(EngineSQLite))),
		DatabaseServer:          os.Getenv("DATABASE_SERVER"),
		DatabaseName:            getEnv("DATABASE_NAME", "ged"),
		DatabaseUser:            os.Getenv("DATABASE_USER"),
		DatabasePassword:        os.Getenv("DATABASE_PASSWORD"),
		DatabaseDSN:             getEnv("DATABASE_DSN", "/var/ged/data/ged.db"),
		CatalogPath:             getEnv("CATALOG_PATH", "/var/gedops/data/catalog.db"),
		DatabaseRetentionDays:   getEnvInt("DATABASE_RETENTION_DAYS", 90),
		FilesRetentionDays:      getEnvInt("FILES_RETENTION_DAYS", 90),
		TrashRetentionDays:      getEnvInt("TRASH_RETENTION_DAYS", 30),
		AuditLogRetentionDays:   getEnvInt("AUDIT_LOG_RETENTION_DAYS", 365),
		CompressFileBackups:     getEnvBool("COMPRESS_FILE_BACKUPS", true),
		VerifyBackups:           getEnvBool("VERIFY_BACKUPS", true),
		SendBackupNotifications: getEnvBool("SEND_BACKUP_NOTIFICATIONS", false),
		BackupNotificationEmail: os.Getenv("BACKUP_NOTIFICATION_EMAIL"),
		SMTPHost:                os.Getenv("SMTP_HOST"),
		SMTPPort:                getEnvInt("SMTP_PORT", 587),
		SMTPUser:                os.Getenv("SMTP_USER"),
		SMTPPassword:            os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:                getEnv("SMTP_FROM", "gedops@localhost"),
		ObjectStorageEndpoint:   os.Getenv("OBJECT_STORAGE_ENDPOINT"),
		ObjectStorageKeyID:      os.Getenv("OBJECT_STORAGE_KEY_ID"),
		ObjectStorageSecretKey:  os.Getenv("OBJECT_STORAGE_SECRET_KEY"),
		ObjectStorageRegion:     os.Getenv("OBJECT_STORAGE_REGION"),
		MinFreeDiskBytes:        uint64(getEnvInt("MIN_FREE_DISK_MB", 512)) * 1024 * 1024,
	}
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	if c.DatabaseEngine == EngineSQLServer && c.DatabaseServer == "" {
		return errors.New("DATABASE_SERVER is required for the sqlserver engine")
	}
	if c.SendBackupNotifications && c.BackupNotificationEmail == "" {
		return errors.New("BACKUP_NOTIFICATION_EMAIL is required when notifications are enabled")
	}
	return nil
}

func (c Config) HasObjectStorage() bool {
	return c.ObjectStorageEndpoint != ""
}

func (c Config) DatabaseBackupDir() string {
	return filepath.Join(c.BackupDir, "database")
}

func (c Config) FilesBackupDir() string {
	return filepath.Join(c.BackupDir, "files")
}

func (c Config) AuditArchiveDir() string {
	return filepath.Join(c.BackupDir, "audit_logs")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return strings.EqualFold(value, "true") || value == "1"
}
