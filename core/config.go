package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                        string
		Addr                        string
		DebugHost                   string
		ShutdownTimeout             time.Duration
		AccessTokenExpirationDelta  time.Duration
		RefreshTokenExpirationDelta time.Duration
		OTPTokenExpirationDelta     time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	CloudinaryConfig struct {
		CloudName string
		ApiKey    string
		ApiSecret string
	}

	Config struct {
		Debug            bool
		TestMode         bool
		Env              string
		Build            string
		AppName          string
		SecretKey        string
		FrontendBaseURL  string
		WorkDir          string
		MediaDir         string
		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string

		// CivilTZOffset is the fixed offset (east of UTC) of the civil time
		// degree-form windows are entered and exported in. Not a tzdb lookup.
		CivilTZOffset time.Duration

		OTPExpirationDelta time.Duration

		Server     ServerConfig
		Database   DatabaseConfig
		Cloudinary CloudinaryConfig
	}
)

// CivilTZ returns the fixed civil zone used for form windows and exports.
func (c *Config) CivilTZ() *time.Location {
	return time.FixedZone("civil", int(c.CivilTZOffset/time.Second))
}

func (dbc DatabaseConfig) Address() string {
	return dbc.Host + ":" + dbc.Port
}

func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Pravesh")
	v.SetDefault("secretKey", "w3lc0me-t0-pr4vesh-ch4nge-m3-in-pr0d")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("civilTzOffset", 5*time.Hour+30*time.Minute) // IST
	v.SetDefault("otpExpirationDelta", 5*time.Minute)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.debugHost", "localhost:4000")
	v.SetDefault("server.shutdownTimeout", 20*time.Second)
	v.SetDefault("server.accessTokenExpirationDelta", 15*time.Minute)
	v.SetDefault("server.refreshTokenExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.otpTokenExpirationDelta", 5*time.Minute)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "pravesh")
	v.SetDefault("database.user", "pravesh")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.disableTls", true)

	v.SetDefault("cloudinary.cloudName", "")
	v.SetDefault("cloudinary.apiKey", "")
	v.SetDefault("cloudinary.apiSecret", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetDefault("testMode", env == "TEST")
	if env != "DEV" && env != "TEST" {
		v.SetDefault("debug", false)
	}

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	conf := &Config{
		Debug:           v.GetBool("debug"),
		TestMode:        v.GetBool("testMode"),
		Env:             env,
		Build:           v.GetString("build"),
		AppName:         v.GetString("appName"),
		SecretKey:       v.GetString("secretKey"),
		FrontendBaseURL: v.GetString("frontendBaseUrl"),
		WorkDir:         wd,
		MediaDir:        filepath.Join(wd, "media"),
		DefaultFromEmail: mail.Address{
			Name:    v.GetString("appName"),
			Address: v.GetString("defaultFromEmail"),
		},
		SendgridApiKey:     v.GetString("sendgridApiKey"),
		RollbarToken:       v.GetString("rollbarToken"),
		CivilTZOffset:      v.GetDuration("civilTzOffset"),
		OTPExpirationDelta: v.GetDuration("otpExpirationDelta"),
		Server: ServerConfig{
			Host:                        v.GetString("server.host"),
			Addr:                        v.GetString("server.addr"),
			DebugHost:                   v.GetString("server.debugHost"),
			ShutdownTimeout:             v.GetDuration("server.shutdownTimeout"),
			AccessTokenExpirationDelta:  v.GetDuration("server.accessTokenExpirationDelta"),
			RefreshTokenExpirationDelta: v.GetDuration("server.refreshTokenExpirationDelta"),
			OTPTokenExpirationDelta:     v.GetDuration("server.otpTokenExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			Host:          v.GetString("database.host"),
			Port:          v.GetString("database.port"),
			DisableTLS:    v.GetBool("database.disableTls"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("cloudinary.cloudName"),
			ApiKey:    v.GetString("cloudinary.apiKey"),
			ApiSecret: v.GetString("cloudinary.apiSecret"),
		},
	}

	if !conf.Debug && conf.SecretKey == "w3lc0me-t0-pr4vesh-ch4nge-m3-in-pr0d" {
		fmt.Fprintln(os.Stderr, "WARNING: running with the default secret key")
	}
	return conf
}
