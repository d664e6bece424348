package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	*Database    `yaml:"database" json:"database"`
	*Redis       `yaml:"redis" json:"redis"`
	*Meilisearch `yaml:"meilisearch" json:"meilisearch"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Database:    getDatabaseConfig(v),
		Redis:       getRedisConfigs(v),
		Meilisearch: getMeilisearchConfigs(v),
	}
}
