package core

import (
	"log"
	"net"
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
		Host                      string
		Addr                      string
		DebugAddr                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		PasswordResetTimeoutDelta time.Duration
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

	StorageConfig struct {
		// Engine selects the repository set: "records" (file-backed record
		// store, the default) or "postgres".
		Engine string
		Dir    string
	}

	AdminConfig struct {
		Email    string
		Password string
	}

	OpenAIConfig struct {
		APIKey string
		Model  string
	}

	AWSConfig struct {
		Region               string
		UploadBucket         string
		CDNBaseURL           string
		CloudFrontKeyID      string
		CloudFrontPrivateKey string // PEM
	}

	Config struct {
		Env              string
		Build            string
		Debug            bool
		TestMode         bool
		AppName          string
		SecretKey        []byte
		FrontendBaseURL  string
		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		Admin    AdminConfig
		Server   ServerConfig
		Database DatabaseConfig
		Storage  StorageConfig
		OpenAI   OpenAIConfig
		AWS      AWSConfig
	}
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, dc.Port)
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "dev")
	conf.SetDefault("appName", "DoctorPrep")
	conf.SetDefault("secretKey", "q0j#pwd-&k3y5=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@doctorprep.local")
	conf.SetDefault("sendgridApiKey", "")
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("adminEmail", "admin@doctorprep.com")
	conf.SetDefault("adminPassword", "admin123")

	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugAddr", ":4000")
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	conf.SetDefault("databaseEngine", "postgres")
	conf.SetDefault("databaseName", "doctorprep")
	conf.SetDefault("databaseUser", "doctorprep")
	conf.SetDefault("databasePassword", "")
	conf.SetDefault("databaseAdminUser", "")
	conf.SetDefault("databaseAdminPassword", "")
	conf.SetDefault("databaseHost", "localhost")
	conf.SetDefault("databasePort", "5432")
	conf.SetDefault("databaseDisableTLS", true)

	conf.SetDefault("storageEngine", "records")
	conf.SetDefault("storageDir", filepath.Join(".", "data"))

	conf.SetDefault("openaiApiKey", "")
	conf.SetDefault("openaiModel", "gpt-3.5-turbo")

	conf.SetDefault("awsRegion", "us-east-1")
	conf.SetDefault("awsUploadBucket", "doctorprep-raw-uploads")
	conf.SetDefault("cdnBaseURL", "https://cdn.doctorprep.com")
	conf.SetDefault("cloudfrontKeyId", "")
	conf.SetDefault("cloudfrontPrivateKey", "")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:       env,
		Build:     conf.GetString("build"),
		Debug:     conf.GetBool("debug"),
		TestMode:  env == "TEST",
		AppName:   conf.GetString("appName"),
		SecretKey: []byte(conf.GetString("secretKey")),

		FrontendBaseURL: conf.GetString("frontendBaseURL"),
		DefaultFromEmail: mail.Address{
			Name:    conf.GetString("appName"),
			Address: conf.GetString("defaultFromEmail"),
		},
		SendgridAPIKey: conf.GetString("sendgridApiKey"),
		RollbarToken:   conf.GetString("rollbarToken"),

		Admin: AdminConfig{
			Email:    conf.GetString("adminEmail"),
			Password: conf.GetString("adminPassword"),
		},
		Server: ServerConfig{
			Host:                      conf.GetString("serverHost"),
			Addr:                      conf.GetString("serverAddr"),
			DebugAddr:                 conf.GetString("serverDebugAddr"),
			ShutdownTimeout:           conf.GetDuration("shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
			PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("databaseEngine"),
			Name:          conf.GetString("databaseName"),
			User:          conf.GetString("databaseUser"),
			Password:      conf.GetString("databasePassword"),
			AdminUser:     conf.GetString("databaseAdminUser"),
			AdminPassword: conf.GetString("databaseAdminPassword"),
			Host:          conf.GetString("databaseHost"),
			Port:          conf.GetString("databasePort"),
			DisableTLS:    conf.GetBool("databaseDisableTLS"),
		},
		Storage: StorageConfig{
			Engine: conf.GetString("storageEngine"),
			Dir:    conf.GetString("storageDir"),
		},
		OpenAI: OpenAIConfig{
			APIKey: conf.GetString("openaiApiKey"),
			Model:  conf.GetString("openaiModel"),
		},
		AWS: AWSConfig{
			Region:               conf.GetString("awsRegion"),
			UploadBucket:         conf.GetString("awsUploadBucket"),
			CDNBaseURL:           conf.GetString("cdnBaseURL"),
			CloudFrontKeyID:      conf.GetString("cloudfrontKeyId"),
			CloudFrontPrivateKey: conf.GetString("cloudfrontPrivateKey"),
		},
	}
}

// NewTestConfig returns a Config suitable for unit tests: deterministic
// secret, short deltas, no external services.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Build:            "test",
		Debug:            true,
		TestMode:         true,
		AppName:          "DoctorPrep",
		SecretKey:        []byte("secret"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "DoctorPrep", Address: "noreply@localhost"},
		Admin:            AdminConfig{Email: "admin@doctorprep.com", Password: "admin123"},
		Server: ServerConfig{
			Host:                      "localhost",
			Addr:                      ":8000",
			ShutdownTimeout:           time.Second,
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		},
		Storage: StorageConfig{Engine: "records"},
	}
}
