package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Remote
		Database
		Sync
		Scheduler
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	// Remote is the upstream relational source the sync engine pulls from.
	Remote struct {
		Server   string
		Port     int
		Name     string
		User     string
		Password string
	}
	Database struct {
		Path string
	}
	Sync struct {
		Epoch string // First day of the data-collection period (YYYY-MM-DD)
	}
	Scheduler struct {
		Enabled             bool
		IncrementalSchedule string // Cron format: "30 5 * * *" = nightly at 05:30
		PriorMonthSchedule  string // Cron format: "0 6 5,10 * *" = 5th and 10th at 06:00
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8199)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("db_server", "")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_name", "adv_hc")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")

	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("sync_epoch", DefaultEpoch)

	v.SetDefault("scheduler_enabled", false)
	v.SetDefault("scheduler_incremental_schedule", "30 5 * * *")
	v.SetDefault("scheduler_prior_month_schedule", "0 6 5,10 * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Remote: Remote{
			Server:   v.GetString("DB_SERVER"),
			Port:     v.GetInt("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Sync: Sync{
			Epoch: v.GetString("SYNC_EPOCH"),
		},
		Scheduler: Scheduler{
			Enabled:             v.GetBool("SCHEDULER_ENABLED"),
			IncrementalSchedule: v.GetString("SCHEDULER_INCREMENTAL_SCHEDULE"),
			PriorMonthSchedule:  v.GetString("SCHEDULER_PRIOR_MONTH_SCHEDULE"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
