package Models

import (
	"log"

	"Pulse/Config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	connection, err := gorm.Open(sqlite.Open(Config.Current.DatabasePath))
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	DB = connection

	// 1. Base tables without foreign keys
	DB.AutoMigrate(
		&User{},
		&StaffMember{},
		&CurrencyRate{},
		&CurrencyBankRate{},
		&TimesheetRecord{},
		&Budget{},
	)

	// 2. Tables referencing the base ones
	DB.AutoMigrate(
		&UserWorkload{},
		&VoiceAssistantProjectUser{},
		&CounselingLog{},
	)
}
