package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/agentstation/ipamctl/pkg/constants"
	"github.com/agentstation/ipamctl/pkg/errors"
	"github.com/agentstation/ipamctl/pkg/params"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string
	Check   bool

	// Config file
	ConfigFile string

	// phpIPAM connection
	ServerURL     string
	AppID         string
	Username      string
	Password      string
	ValidateCerts bool
	Timeout       time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string][]string{
	"server_url":     {constants.EnvServerURL},
	"app_id":         {constants.EnvAppID},
	"username":       {constants.EnvUsername},
	"password":       {constants.EnvPassword},
	"validate_certs": {constants.EnvValidateCerts},
	"timeout":        {"PHPIPAM_TIMEOUT"},
	"check":          {"IPAMCTL_CHECK"},
	"format":         {"IPAMCTL_FORMAT"},
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"server-url":     "server_url",
	"app-id":         "app_id",
	"username":       "username",
	"password":       "password",
	"validate-certs": "validate_certs",
	"timeout":        "timeout",
	"check":          "check",
	"format":         "format",
	"verbose":        "verbose",
	"quiet":          "quiet",
	"no-color":       "no_color",
	"log-level":      "log_level",
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (bound in BindFlags)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.ipamctl.yaml or --config)
// 5. Defaults
func LoadConfig(v *viper.Viper) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, errors.NewConfigError("env", "binding "+key, err)
		}
	}

	v.SetDefault("validate_certs", true)
	v.SetDefault("timeout", constants.DefaultHTTPTimeout)

	if configFile := v.GetString("config"); configFile != "" {
		v.SetConfigFile(configFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".ipamctl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config file", err.Error(), err)
		}
	}

	return fromViper(v), nil
}

// BindFlags makes flag values take precedence over every other source.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.NewConfigError("flags", "binding --"+name, err)
		}
	}
	return nil
}

// ReadConfigFile reads an explicitly given config file.
func ReadConfigFile(v *viper.Viper, path string) (*Config, error) {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.NewConfigError("config file", err.Error(), err)
	}
	return fromViper(v), nil
}

// fromViper builds a Config from the merged sources.
func fromViper(v *viper.Viper) *Config {
	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),
		Check:   v.GetBool("check"),

		ConfigFile: v.ConfigFileUsed(),

		ServerURL:     v.GetString("server_url"),
		AppID:         v.GetString("app_id"),
		Username:      v.GetString("username"),
		Password:      v.GetString("password"),
		ValidateCerts: v.GetBool("validate_certs"),
		Timeout:       v.GetDuration("timeout"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
}

// Connection returns the connection arguments that are set, keyed by
// parameter name.
func (c *Config) Connection() map[string]any {
	input := map[string]any{params.ValidateCerts: c.ValidateCerts}
	for name, value := range map[string]string{
		params.ServerURL: c.ServerURL,
		params.AppID:     c.AppID,
		params.Username:  c.Username,
		params.Password:  c.Password,
	} {
		if value != "" {
			input[name] = value
		}
	}
	return input
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// godotenv never overrides a set variable, so .env.local wins over .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
