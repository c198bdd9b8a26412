package report

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	"daytrack/internal/config"
)

// Config keys, also readable as DAYTRACK_<KEY> environment variables.
const (
	KeyBackend    = "backend"
	KeyDataDir    = "data_dir"
	KeySQLitePath = "sqlite_path"
	KeyTimezone   = "timezone"
	KeyNoColor    = "no_color"
)

// NewViper returns a viper instance reading .daytrack.yaml from the working
// directory (or DAYTRACK_CONFIG_PATH) and the DAYTRACK_ environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, config.BackendSQLite)
	v.SetDefault(KeyDataDir, "./data")
	v.SetDefault(KeySQLitePath, "./data/daytrack.db")
	v.SetDefault(KeyTimezone, "Local")
	v.SetDefault(KeyNoColor, false)

	v.SetConfigName(".daytrack")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DAYTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("DAYTRACK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(".")
	return v
}

// LoadConfig reads the optional config file and maps the settings onto the
// application config the storage factory understands.
func LoadConfig(v *viper.Viper) (*config.Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	cfg := &config.Config{
		DataBackend:  v.GetString(KeyBackend),
		DataDir:      v.GetString(KeyDataDir),
		SQLiteDBPath: v.GetString(KeySQLitePath),
		Timezone:     v.GetString(KeyTimezone),
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}
