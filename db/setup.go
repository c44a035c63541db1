package db

import (
	"github.com/Simonbn1/eksamen/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database and hands the connection back to the
// caller; the entry point owns its lifecycle and passes it down to the
// stores. TranslateError lets callers match gorm.ErrDuplicatedKey
// instead of driver-specific constraint errors.
func Connect(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return nil, err
	}

	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	entities := []interface{}{
		&models.User{},
		&models.Event{},
		&models.Attendance{},
	}

	migrator := conn.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := conn.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}
