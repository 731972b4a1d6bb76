package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/eternal-365/educonnect/internal/chat"
	"github.com/eternal-365/educonnect/internal/users"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	return gdb
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&users.User{},
		&users.VocationalCourse{},
		&chat.Message{},
		&chat.Job{},
	)
}
