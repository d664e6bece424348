package config

import (
	"time"

	"github.com/spf13/viper"
)

// Auth auth config struct
type Auth struct {
	JWT        *JWT
	Password   *Password
	ResetCheck string
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT:        getJWT(v),
		Password:   getPassword(v),
		ResetCheck: getStringOrDefault(v, "auth.reset_check", "stored_code"),
	}
}

// JWT jwt config struct
type JWT struct {
	Secret        string
	AccessExpire  time.Duration
	RefreshExpire time.Duration
	ActionExpire  time.Duration
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	return &JWT{
		Secret:        v.GetString("auth.jwt.secret"),
		AccessExpire:  getDurationOrDefault(v, "auth.jwt.access_expire", 15*time.Minute),
		RefreshExpire: getDurationOrDefault(v, "auth.jwt.refresh_expire", 7*24*time.Hour),
		ActionExpire:  getDurationOrDefault(v, "auth.jwt.action_expire", 24*time.Hour),
	}
}

// Password password policy config struct
type Password struct {
	MinLength     int
	MaxLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RejectNumeric bool
	RejectCommon  bool
}

// getPassword returns the password policy config.
func getPassword(v *viper.Viper) *Password {
	return &Password{
		MinLength:     getIntOrDefault(v, "auth.password.min_length", 8),
		MaxLength:     getIntOrDefault(v, "auth.password.max_length", 15),
		RequireUpper:  getBoolOrDefault(v, "auth.password.require_upper", false),
		RequireLower:  getBoolOrDefault(v, "auth.password.require_lower", false),
		RequireDigit:  getBoolOrDefault(v, "auth.password.require_digit", false),
		RejectNumeric: getBoolOrDefault(v, "auth.password.reject_numeric", true),
		RejectCommon:  getBoolOrDefault(v, "auth.password.reject_common", true),
	}
}
