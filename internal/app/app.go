package app

import (
	"github.com/pkg/errors"

	"gedops/internal/backup"
	"gedops/internal/cleanup"
	"gedops/internal/config"
	"gedops/internal/database"
	"gedops/internal/notify"
	"gedops/internal/service"
	"gedops/internal/storage"
)

// App wires configuration, the artifact catalog and the services the
// commands run against. The application database is opened lazily: the
// backup commands never touch it.
type App struct {
	Cfg config.Config

	Artifacts database.ArtifactRepository
	Runs      database.RunRepository

	store   storage.Storage
	offsite storage.Storage
	mailer  notify.Mailer
}

func New() (*App, error) {
	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	catalog, err := database.OpenCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Cfg:       cfg,
		Artifacts: database.NewArtifactRepository(catalog),
		Runs:      database.NewRunRepository(catalog),
		store:     storage.NewFileStorage(),
		mailer:    notify.NewMailer(cfg),
	}

	if cfg.HasObjectStorage() {
		a.offsite, err = storage.NewObjectStorage(storage.Credentials{
			Endpoint:  cfg.ObjectStorageEndpoint,
			KeyID:     cfg.ObjectStorageKeyID,
			SecretKey: cfg.ObjectStorageSecretKey,
			Region:    cfg.ObjectStorageRegion,
		})
		if err != nil {
			return nil, errors.Wrap(err, "invalid object storage credentials")
		}
	}

	return a, nil
}

func (a *App) BackupService() service.BackupService {
	return service.NewBackupService(
		a.Cfg,
		a.databaseExecutor(),
		backup.NewFiles(a.Cfg.UploadDir, a.Cfg.CompressFileBackups),
		a.store,
		a.offsite,
		a.Artifacts,
		a.Runs,
		a.mailer)
}

func (a *App) CleanupService() (service.CleanupService, error) {
	db, err := database.OpenApplication(a.Cfg.DatabaseEngine, a.Cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	trash := cleanup.NewTrash(database.NewDocumentRepository(db), a.Cfg.TrashRetentionDays)
	tokens := cleanup.NewTokens(database.NewTokenRepository(db))
	audit := cleanup.NewAudit(database.NewAuditLogRepository(db), a.store,
		a.Cfg.AuditArchiveDir(), a.Cfg.AuditLogRetentionDays)

	return service.NewCleanupService(trash, tokens, audit, a.Runs), nil
}

func (a *App) databaseExecutor() backup.Executor {
	target := backup.Target{
		Server:   a.Cfg.DatabaseServer,
		Database: a.Cfg.DatabaseName,
		User:     a.Cfg.DatabaseUser,
		Password: a.Cfg.DatabasePassword,
		DSN:      a.Cfg.DatabaseDSN,
	}

	switch a.Cfg.DatabaseEngine {
	case config.EngineSQLServer:
		return backup.NewSQLServer(target)
	case config.EnginePostgres:
		return backup.NewPostgres(target)
	default:
		return backup.NewSQLite(target)
	}
}
