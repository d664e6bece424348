package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	dc "github.com/ncobase/cookscorner/data/config"
	"github.com/ncobase/cookscorner/messaging/email"
	"github.com/spf13/viper"
)

const envPrefix = "COOKSCORNER"

var (
	config *Config
	path   string
	mu     sync.RWMutex
	v      = viper.New()
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	RunMode string
	Server  *Server
	Logger  *Logger
	Data    *dc.Config
	Auth    *Auth
	Links   *Links
	Email   *email.Email
	Viper   *viper.Viper
}

// Server http server config struct
type Server struct {
	Protocol     string
	Domain       string
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Links holds the front-end URLs that action tokens are appended to.
type Links struct {
	VerifyEmail   string
	ResetPassword string
}

// Init loads the configuration from the given path and stores it globally.
func Init(configPath string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	path = configPath
	config = cfg
	return cfg, nil
}

// GetConfig returns the configuration loaded by Init.
func GetConfig() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if config == nil {
		return nil, errors.New("config is not initialized")
	}
	return config, nil
}

// LoadConfig loads the configuration from the file.
// Without an explicit path a missing file is tolerated and defaults plus
// COOKSCORNER_* environment variables are used.
func LoadConfig(configPath string) (*Config, error) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/cookscorner")
		v.AddConfigPath("$HOME/.cookscorner")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return New(v), nil
}

// New builds a Config from a populated viper instance.
func New(v *viper.Viper) *Config {
	return &Config{
		AppName: getStringOrDefault(v, "app_name", "cookscorner"),
		RunMode: getStringOrDefault(v, "run_mode", "release"),
		Server:  getServerConfig(v),
		Logger:  getLoggerConfig(v),
		Data:    dc.GetConfig(v),
		Auth:    getAuth(v),
		Links:   getLinksConfig(v),
		Email:   getEmailConfig(v),
		Viper:   v,
	}
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Protocol:     getStringOrDefault(v, "server.protocol", "http"),
		Domain:       getStringOrDefault(v, "server.domain", "localhost"),
		Host:         getStringOrDefault(v, "server.host", "0.0.0.0"),
		Port:         getIntOrDefault(v, "server.port", 8000),
		ReadTimeout:  getIntOrDefault(v, "server.read_timeout", 15),
		WriteTimeout: getIntOrDefault(v, "server.write_timeout", 15),
	}
}

func getLinksConfig(v *viper.Viper) *Links {
	return &Links{
		VerifyEmail:   getStringOrDefault(v, "links.verify_email", "http://localhost:8000/api/v1/email-verify"),
		ResetPassword: getStringOrDefault(v, "links.reset_password", "http://localhost:8000/api/v1/forgot-password/change"),
	}
}

// Reload reloads the configuration from the file.
func Reload() error {
	newConfig, err := LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}

	mu.Lock()
	config = newConfig
	mu.Unlock()
	return nil
}

// Watch watches the configuration file and reloads it when it changes.
func Watch(callback func(*Config), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		if err := Reload(); err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		mu.RLock()
		cfg := config
		mu.RUnlock()
		callback(cfg)
	})
	v.WatchConfig()
}
