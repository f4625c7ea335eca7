package storage

import (
	"github.com/ericogr/chimera-descent/internal/game"
	"github.com/ericogr/chimera-descent/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database, migrates the schema and seeds
// the adversary catalog from configuration when the table is empty.
func OpenAndMigrate(dataSourceName string, adversaries []game.AdversaryTemplate, encounters []game.ScriptedEncounter) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&game.RunSnapshot{}, &game.AdversaryTemplate{}, &game.ScriptedEncounter{}, &game.PlayerProfile{})
	if err != nil {
		return nil, err
	}

	if err := seedAdversaries(db, adversaries); err != nil {
		return nil, err
	}
	if err := seedEncounters(db, encounters); err != nil {
		return nil, err
	}
	return db, nil
}

// The catalog rows are only seeded once; edits made directly in the
// database survive restarts.
func seedAdversaries(db *gorm.DB, adversaries []game.AdversaryTemplate) error {
	var count int64
	if err := db.Model(&game.AdversaryTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(adversaries) == 0 {
		return nil
	}
	rows := make([]game.AdversaryTemplate, len(adversaries))
	copy(rows, adversaries)
	if err := db.Create(&rows).Error; err != nil {
		return err
	}
	logging.Info("adversary catalog seeded", logging.Fields{"count": len(rows)})
	return nil
}

func seedEncounters(db *gorm.DB, encounters []game.ScriptedEncounter) error {
	var count int64
	if err := db.Model(&game.ScriptedEncounter{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(encounters) == 0 {
		return nil
	}
	rows := make([]game.ScriptedEncounter, len(encounters))
	copy(rows, encounters)
	return db.Create(&rows).Error
}
