package config

import "fmt"

type Config struct {
	Backend BackendConfig
	Storage StorageConfig
	Server  ServerConfig
	Log     LogConfig
}

type BackendConfig struct {
	BaseURL        string
	TimeoutSeconds int
	MaxRetries     int
}

type StorageConfig struct {
	DataDir string
}

type ServerConfig struct {
	Port int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Backend: BackendConfig{
			TimeoutSeconds: 30,
			MaxRetries:     2,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Server: ServerConfig{
			Port: 4080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend and environment
// variables.
//
// On macOS the backend is UserDefaults (domain: com.qaboard.app).
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/qaboard/config.json.
//
// Environment variables (QABOARD_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	if cfg.Backend.BaseURL == "" {
		return Config{}, fmt.Errorf("missing required config: backend base URL. " +
			"Set it with `qaboard config set backend.base_url <url>` " +
			"or via environment variable QABOARD_BACKEND_BASE_URL")
	}

	return cfg, nil
}
