package config

import "github.com/spf13/viper"

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
	Index  string `json:"index" yaml:"index"`
}

// Enabled reports whether a meilisearch host is configured.
func (m *Meilisearch) Enabled() bool {
	return m != nil && m.Host != ""
}

// getMeilisearchConfigs reads Meilisearch configurations
func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	index := "recipes"
	if v.IsSet("data.meilisearch.index") {
		index = v.GetString("data.meilisearch.index")
	}
	return &Meilisearch{
		Host:   v.GetString("data.meilisearch.host"),
		APIKey: v.GetString("data.meilisearch.api_key"),
		Index:  index,
	}
}
