package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Book{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Part{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Chapter{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Section{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Block{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Note{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&PublishedBook{}); err != nil {
		return err
	}

	return db.AutoMigrate(&LatestPublishedBook{})
}
