package database

import (
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"

	"gedops/internal/config"
	"gedops/internal/types"
)

// OpenApplication connects to the GED application database the cleanup
// jobs operate on. The schema is owned by the application; nothing is
// migrated here.
func OpenApplication(engine config.Engine, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch engine {
	case config.EngineSQLServer:
		dialector = sqlserver.Open(dsn)
	case config.EnginePostgres:
		dialector = postgres.Open(dsn)
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database engine: %s", engine)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open application DB")
	}
	return db, nil
}

// OpenCatalog opens the toolkit's own sqlite catalog of artifacts and runs.
func OpenCatalog(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog DB: "+path)
	}

	if err := db.AutoMigrate(
		&types.Artifact{},
		&types.Run{}); err != nil {
		return nil, err
	}

	return db, nil
}
