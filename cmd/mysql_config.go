package cmd

import (
	"commerce/config"
	"commerce/infrastructure/persistence/mysql"
)

// NewMySQLConfig connection settings for the mysql and sqlite backends
func NewMySQLConfig(cfg *config.Config) *mysql.Config {
	driver := mysql.DriverMySQL
	if cfg.Database.Type == config.DatabaseSQLite {
		driver = mysql.DriverSQLite
	}
	return &mysql.Config{
		Driver:          driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SQLitePath:      cfg.Database.SQLitePath,
		LogLevel:        cfg.Database.LogLevel,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}
}
