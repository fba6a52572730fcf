package database

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationLogger adapts ectologger to the migrate logging interface.
type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool {
	return true
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// MigrationService runs schema migrations at startup.
type MigrationService struct {
	folderPath string
	logger     ectologger.Logger
}

// NewMigrationService creates a new migration service
func NewMigrationService(logger ectologger.Logger, folderPath string) *MigrationService {
	return &MigrationService{
		folderPath: folderPath,
		logger:     logger,
	}
}

// resolveMigrationFolder tries the configured path, then relative to the
// working directory.
func (ms *MigrationService) resolveMigrationFolder() string {
	if _, err := os.Stat(ms.folderPath); err == nil {
		return ms.folderPath
	}
	workingDirectory, _ := os.Getwd()
	return workingDirectory + "/" + ms.folderPath
}

// Migrate applies every pending migration.
func (ms *MigrationService) Migrate(databaseName string, databaseInstance database.Driver) error {
	migrationFolder := ms.resolveMigrationFolder()
	if _, err := os.Stat(migrationFolder); err != nil {
		return fmt.Errorf("migration folder %s does not exist: %w", migrationFolder, err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationFolder, databaseName, databaseInstance)
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migrate instance")
		return err
	}

	m.Log = MigrationLogger{Logger: ms.logger}

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			ms.logger.Info("No new migrations to apply")
			return nil
		}

		version, dirty, versionErr := m.Version()
		if versionErr != nil && versionErr != migrate.ErrNilVersion {
			ms.logger.WithError(versionErr).Error("Failed to get current migration version")
		}
		ms.logger.WithError(err).Errorf("Failed to apply migrations. Database version is dirty=%t at version %d", dirty, version)
		return err
	}

	ms.logger.Info("Successfully applied migrations")
	return nil
}
