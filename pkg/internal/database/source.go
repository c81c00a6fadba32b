package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var C *gorm.DB

func NewSource() error {
	var err error

	dialector := postgres.Open(viper.GetString("database.dsn"))
	C, err = gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: viper.GetString("database.prefix") + "_",
		},
		Logger: logger.New(&log.Logger, logger.Config{
			LogLevel: logger.Warn,
		}),
	})
	if err != nil {
		return fmt.Errorf("unable to open database: %v", err)
	}

	return nil
}
