// Package config loads editor and server settings from drillbook.cfg.json
// via viper, with defaults for every key so an empty file is a valid
// configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects and parameterizes the persistence backend.
type StorageConfig struct {
	Type     string         `json:"type" mapstructure:"type"`
	Memory   MemoryConfig   `json:"memory" mapstructure:"memory"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds the embedded database backend settings.
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PostgresConfig holds the shared database backend settings.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// ServerConfig holds the HTTP/websocket server settings.
type ServerConfig struct {
	Addr string `json:"addr" mapstructure:"addr"`
}

// AutosaveConfig holds background persistence settings.
type AutosaveConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
	Workers  int           `json:"workers" mapstructure:"workers"`
}

// ArenaConfig holds the arena dimensions in meters.
type ArenaConfig struct {
	Length float64 `json:"length" mapstructure:"length"`
	Width  float64 `json:"width" mapstructure:"width"`
}

// GeoRefConfig anchors the arena on the globe for GPS export.
type GeoRefConfig struct {
	OriginLat float64 `json:"originLat" mapstructure:"originLat"`
	OriginLon float64 `json:"originLon" mapstructure:"originLon"`
	// HeadingDeg rotates the arena's +x axis clockwise from true east.
	HeadingDeg float64 `json:"headingDeg" mapstructure:"headingDeg"`
}

// InfluxConfig holds the metrics sink settings.
type InfluxConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Protocol string `json:"protocol" mapstructure:"protocol"`
	Token    string `json:"token" mapstructure:"token"`
	Org      string `json:"org" mapstructure:"org"`
}

// OTelConfig holds the OpenTelemetry exporter settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./drillbook-logs")

	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./drills")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.path", "./drillbook.db")
	viper.SetDefault("storage.postgres.host", "localhost")
	viper.SetDefault("storage.postgres.port", "5432")
	viper.SetDefault("storage.postgres.username", "postgres")
	viper.SetDefault("storage.postgres.password", "postgres")
	viper.SetDefault("storage.postgres.database", "drillbook")

	viper.SetDefault("autosave.enabled", true)
	viper.SetDefault("autosave.interval", "30s")
	viper.SetDefault("autosave.workers", 1)

	viper.SetDefault("arena.length", 80.0)
	viper.SetDefault("arena.width", 40.0)

	viper.SetDefault("georef.originLat", 0.0)
	viper.SetDefault("georef.originLon", 0.0)
	viper.SetDefault("georef.headingDeg", 0.0)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "drillbook-metrics")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "drillbook")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("drillbook.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the typed storage section.
func GetStorageConfig() StorageConfig {
	var cfg StorageConfig
	_ = viper.UnmarshalKey("storage", &cfg)
	return cfg
}

// GetServerConfig returns the typed server section.
func GetServerConfig() ServerConfig {
	var cfg ServerConfig
	_ = viper.UnmarshalKey("server", &cfg)
	return cfg
}

// GetAutosaveConfig returns the typed autosave section.
func GetAutosaveConfig() AutosaveConfig {
	var cfg AutosaveConfig
	_ = viper.UnmarshalKey("autosave", &cfg)
	return cfg
}

// GetArenaConfig returns the typed arena section.
func GetArenaConfig() ArenaConfig {
	var cfg ArenaConfig
	_ = viper.UnmarshalKey("arena", &cfg)
	return cfg
}

// GetGeoRefConfig returns the typed georeference section.
func GetGeoRefConfig() GeoRefConfig {
	var cfg GeoRefConfig
	_ = viper.UnmarshalKey("georef", &cfg)
	return cfg
}

// GetInfluxConfig returns the typed influx section.
func GetInfluxConfig() InfluxConfig {
	var cfg InfluxConfig
	_ = viper.UnmarshalKey("influx", &cfg)
	return cfg
}

// GetOTelConfig returns the typed otel section.
func GetOTelConfig() OTelConfig {
	var cfg OTelConfig
	_ = viper.UnmarshalKey("otel", &cfg)
	return cfg
}
