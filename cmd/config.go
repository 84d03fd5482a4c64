package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName        = "bistro"
	envPrefix      = "BISTRO"
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyDebug      = "debug"
	cfgKeyLogDir     = "log_dir"
	cfgKeyThumbnails = "thumbnails"
	cfgKeyAltScreen  = "alt_screen"
)

// Config holds the resolved runtime configuration.
type Config struct {
	Debug      bool
	LogDir     string
	Thumbnails bool
	AltScreen  bool
	ConfigFile string
}

// loadDotEnv loads .env.local and then .env from the working directory.
// Variables already present in the environment are never overridden, so
// .env.local wins over .env.
func loadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		_ = godotenv.Load(name)
	}
}

// loadConfig resolves configuration with precedence flag > BISTRO_* env >
// config.yaml > default. A missing config.yaml is not an error unless the
// path was given explicitly.
func loadConfig(v *viper.Viper, configFile string) (*Config, error) {
	loadDotEnv()

	v.SetDefault(cfgKeyDebug, false)
	v.SetDefault(cfgKeyLogDir, DefaultLogDir())
	v.SetDefault(cfgKeyThumbnails, true)
	v.SetDefault(cfgKeyAltScreen, true)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return &Config{
		Debug:      v.GetBool(cfgKeyDebug),
		LogDir:     v.GetString(cfgKeyLogDir),
		Thumbnails: v.GetBool(cfgKeyThumbnails),
		AltScreen:  v.GetBool(cfgKeyAltScreen),
		ConfigFile: v.ConfigFileUsed(),
	}, nil
}

// DefaultLogDir is <user cache dir>/bistro, or a temp directory when the
// cache dir cannot be determined.
func DefaultLogDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, appName)
}
