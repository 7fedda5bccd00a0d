package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix of every environment variable read by Load.
const envPrefix = "RBLD_"

// ConfigFileEnv names an optional YAML file layered between defaults and environment.
const ConfigFileEnv = envPrefix + "CONFIG_FILE"

// AppConfig holds the ambient settings of the checker. The module parameters
// themselves (list, socket, debug) come from the command line; see ParseArgs.
type AppConfig struct {
	// Env is the runtime environment, either "dev" or "prod".
	Env string `koanf:"env" validate:"required,oneof=dev prod"`

	// LogLevel controls log verbosity when the debug token is absent.
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`

	// LogTarget selects where per-check diagnostics go: "syslog" (authpriv) or "stderr".
	LogTarget string `koanf:"log_target" validate:"required,oneof=syslog stderr"`

	// Timeout bounds each daemon exchange. Zero keeps the untimed behaviour.
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"`
}

// DEFAULT_APP_CONFIG defines the settings used when nothing overrides them.
var DEFAULT_APP_CONFIG = AppConfig{
	Env:       "prod",
	LogLevel:  "info",
	LogTarget: "syslog",
	Timeout:   0,
}

// Default returns a copy of DEFAULT_APP_CONFIG.
func Default() *AppConfig {
	cfg := DEFAULT_APP_CONFIG
	return &cfg
}

// defaultLoader loads DEFAULT_APP_CONFIG through the structs provider.
var defaultLoader = func(k *koanf.Koanf) error {
	return k.Load(structs.Provider(DEFAULT_APP_CONFIG, "koanf"), nil)
}

// fileLoader layers the YAML file named by RBLD_CONFIG_FILE, if any.
var fileLoader = func(k *koanf.Koanf) error {
	path := strings.TrimSpace(os.Getenv(ConfigFileEnv))
	if path == "" {
		return nil
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}
	return nil
}

// envLoader loads environment variables with the prefix "RBLD_",
// lowercasing keys and stripping the prefix. It can be mocked in tests.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			if key == "config_file" {
				return "", nil
			}
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// Load builds an AppConfig from defaults, the optional config file and the
// environment, in that order, then validates it.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := defaultLoader(k); err != nil {
		return nil, fmt.Errorf("error loading default config: %w", err)
	}

	if err := fileLoader(k); err != nil {
		return nil, fmt.Errorf("error loading config file: %w", err)
	}

	if err := envLoader(k); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}
