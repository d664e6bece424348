package config

import (
	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level      int
	Format     string
	Output     string
	OutputFile string
	Masked     []string
}

func getLoggerConfig(v *viper.Viper) *Logger {
	masked := []string{"password", "password_confirm", "old_password", "new_password", "new_password_confirm", "token", "access", "refresh", "secret", "api_key", "code"}
	if v.IsSet("logger.masked_fields") {
		masked = v.GetStringSlice("logger.masked_fields")
	}
	return &Logger{
		Level:      getIntOrDefault(v, "logger.level", 4),
		Format:     getStringOrDefault(v, "logger.format", "json"),
		Output:     getStringOrDefault(v, "logger.output", "stdout"),
		OutputFile: v.GetString("logger.output_file"),
		Masked:     masked,
	}
}
