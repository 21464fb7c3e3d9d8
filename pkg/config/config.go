package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
		// SignalAddr, when set, serves the typing-signal endpoint on a
		// dedicated lean listener (fasthttp).
		SignalAddr string `yaml:"signal_addr"`
		TLS        struct {
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
		// BlobDir overrides the default blob directory under the DB path.
		BlobDir string `yaml:"blob_dir"`
	} `yaml:"storage"`
	Sync struct {
		// TypingWriteInterval throttles typing-map writes, seconds.
		TypingWriteInterval int `yaml:"typing_write_interval"`
		// TypingStaleAfter is the reader-side staleness window, seconds.
		TypingStaleAfter int `yaml:"typing_stale_after"`
		// SubscriberBuffer bounds per-subscription wakeup queues.
		SubscriberBuffer int `yaml:"subscriber_buffer"`
	} `yaml:"sync"`
	Media struct {
		// MaxImageEdge caps the longest edge of uploaded images, pixels.
		MaxImageEdge int `yaml:"max_image_edge"`
		// JPEGQuality is the re-encode quality for resized images.
		JPEGQuality int `yaml:"jpeg_quality"`
		// MaxUploadBytes bounds a single upload body.
		MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	} `yaml:"media"`
	Scheduler struct {
		Enabled bool `yaml:"enabled"`
		// Cron controls the delivery sweep; default every minute.
		Cron string `yaml:"cron"`
	} `yaml:"scheduler"`
	Security struct {
		CORS struct {
			AllowedOrigins []string `yaml:"allowed_origins"`
		} `yaml:"cors"`
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
		APIKeys struct {
			Frontend []string `yaml:"frontend"`
			Backend  []string `yaml:"backend"`
			Admin    []string `yaml:"admin"`
		} `yaml:"api_keys"`
	} `yaml:"security"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // text|json
	} `yaml:"logging"`
}

// Addr returns host:port for the HTTP server.
func (c *Config) Addr() string {
	addr := c.Server.Address
	if addr == "" {
		addr = "0.0.0.0"
	}
	p := c.Server.Port
	if p == 0 {
		p = 8080
	}
	return fmt.Sprintf("%s:%d", addr, p)
}

// TypingWriteInterval returns the configured throttle with its default.
func (c *Config) TypingWriteInterval() int {
	if c.Sync.TypingWriteInterval <= 0 {
		return 2
	}
	return c.Sync.TypingWriteInterval
}

// TypingStaleAfter returns the reader staleness window with its default.
func (c *Config) TypingStaleAfter() int {
	if c.Sync.TypingStaleAfter <= 0 {
		return 4
	}
	return c.Sync.TypingStaleAfter
}

// SubscriberBuffer returns the per-subscription wakeup queue depth with
// its default.
func (c *Config) SubscriberBuffer() int {
	if c.Sync.SubscriberBuffer <= 0 {
		return 1
	}
	return c.Sync.SubscriberBuffer
}

// MaxImageEdge returns the image resize cap with its default.
func (c *Config) MaxImageEdge() int {
	if c.Media.MaxImageEdge <= 0 {
		return 1280
	}
	return c.Media.MaxImageEdge
}

// JPEGQuality returns the re-encode quality with its default.
func (c *Config) JPEGQuality() int {
	if c.Media.JPEGQuality <= 0 {
		return 80
	}
	return c.Media.JPEGQuality
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseCommandFlags defines and parses command-line flags and returns their
// values along with a map indicating which flags were explicitly set.
func ParseCommandFlags() (addr string, dbPath string, cfgPath string, setFlags map[string]bool) {
	addrPtr := flag.String("addr", ":8080", "HTTP listen address")
	dbPtr := flag.String("db", "./.housegram", "document store path")
	cfgPtr := flag.String("config", "./config.yaml", "Path to config file")
	flag.Parse()
	setFlags = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
	return *addrPtr, *dbPtr, *cfgPtr, setFlags
}

// LoadEnvOverrides applies environment overrides onto the provided cfg and
// reports whether any env vars were used.
func LoadEnvOverrides(cfg *Config) bool {
	envUsed := false
	parseList := func(v string) []string {
		if v == "" {
			return nil
		}
		parts := []string{}
		for _, p := range strings.Split(v, ",") {
			if s := strings.TrimSpace(p); s != "" {
				parts = append(parts, s)
			}
		}
		return parts
	}

	if v := os.Getenv("HOUSEGRAM_ADDR"); v != "" {
		envUsed = true
		if h, p, err := net.SplitHostPort(v); err == nil {
			cfg.Server.Address = h
			if pi, err := strconv.Atoi(p); err == nil {
				cfg.Server.Port = pi
			}
		} else {
			cfg.Server.Address = v
		}
	}
	if v := os.Getenv("HOUSEGRAM_SIGNAL_ADDR"); v != "" {
		envUsed = true
		cfg.Server.SignalAddr = v
	}
	if v := os.Getenv("HOUSEGRAM_DB_PATH"); v != "" {
		envUsed = true
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("HOUSEGRAM_BLOB_DIR"); v != "" {
		envUsed = true
		cfg.Storage.BlobDir = v
	}
	if v := os.Getenv("HOUSEGRAM_CORS_ORIGINS"); v != "" {
		envUsed = true
		cfg.Security.CORS.AllowedOrigins = parseList(v)
	}
	if v := os.Getenv("HOUSEGRAM_RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			envUsed = true
			cfg.Security.RateLimit.RPS = f
		}
	}
	if v := os.Getenv("HOUSEGRAM_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			envUsed = true
			cfg.Security.RateLimit.Burst = n
		}
	}
	if v := os.Getenv("HOUSEGRAM_API_FRONTEND_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Frontend = parseList(v)
	}
	if v := os.Getenv("HOUSEGRAM_API_BACKEND_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Backend = parseList(v)
	}
	if v := os.Getenv("HOUSEGRAM_API_ADMIN_KEYS"); v != "" {
		envUsed = true
		cfg.Security.APIKeys.Admin = parseList(v)
	}
	if v := os.Getenv("HOUSEGRAM_SCHEDULER"); v != "" {
		envUsed = true
		vl := strings.ToLower(strings.TrimSpace(v))
		cfg.Scheduler.Enabled = vl == "1" || vl == "true" || vl == "yes"
	}
	if v := os.Getenv("HOUSEGRAM_SCHEDULER_CRON"); v != "" {
		envUsed = true
		cfg.Scheduler.Cron = v
	}
	if c := os.Getenv("HOUSEGRAM_TLS_CERT"); c != "" {
		envUsed = true
		cfg.Server.TLS.CertFile = c
	}
	if k := os.Getenv("HOUSEGRAM_TLS_KEY"); k != "" {
		envUsed = true
		cfg.Server.TLS.KeyFile = k
	}
	return envUsed
}

// LoadEffective loads config from the given path and applies environment
// overrides. A missing file is not fatal; env and defaults still apply.
func LoadEffective(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if err != nil {
		cfg = &Config{}
	}
	envUsed := LoadEnvOverrides(cfg)
	return cfg, envUsed, nil
}

// ResolveConfigPath decides the config file path using the flag-provided value
// and the environment variable HOUSEGRAM_CONFIG when the flag was not set.
func ResolveConfigPath(flagPath string, flagSet bool) string {
	if flagSet {
		return flagPath
	}
	if p := os.Getenv("HOUSEGRAM_CONFIG"); p != "" {
		return p
	}
	return flagPath
}
