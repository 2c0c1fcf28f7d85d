package server

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix prefixes every environment variable read by Load.
const envPrefix = "TESSERA"

// Config holds the server settings. Every field can be set from the
// environment, e.g. TESSERA_ADDR or TESSERA_REDIS_ADDR.
type Config struct {
	Addr           string        `envconfig:"ADDR" default:":8080"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD"`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix      string        `envconfig:"KEY_PREFIX" default:"tessera:"`
	CacheDir       string        `envconfig:"CACHE_DIR"`
	MaxBodyBytes   int64         `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	MaxCells       int           `envconfig:"MAX_CELLS" default:"10000"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(os.TempDir(), "tessera-server")
	}
	return &cfg, nil
}
