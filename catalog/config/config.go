package config

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Astemirdum/library-catalog/pkg/circuit_breaker"
	"github.com/Astemirdum/library-catalog/pkg/kafka"
	"github.com/Astemirdum/library-catalog/pkg/logger"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// AuthMode selects how the client authenticates. The two backend schemes
// are mutually exclusive, so one client only ever speaks one of them.
type AuthMode string

const (
	AuthToken   AuthMode = "token"
	AuthSession AuthMode = "session"
)

// CoverMode selects how book covers coming from the backend are turned into
// displayable URLs.
type CoverMode string

const (
	CoverBase64 CoverMode = "base64"
	CoverMedia  CoverMode = "media"
)

type API struct {
	BaseURL   string        `envconfig:"CATALOG_API_BASE_URL" default:"http://127.0.0.1:8000/api"`
	MediaURL  string        `envconfig:"CATALOG_MEDIA_URL" default:"http://127.0.0.1:8000/media/"`
	AuthMode  AuthMode      `envconfig:"CATALOG_AUTH_MODE" default:"session"`
	CoverMode CoverMode     `envconfig:"CATALOG_COVER_MODE" default:"base64"`
	Timeout   time.Duration `envconfig:"CATALOG_HTTP_TIMEOUT" default:"1m"`
	// RPS caps outgoing requests; zero disables the limiter.
	RPS     float64 `envconfig:"CATALOG_RPS" default:"0"`
	Breaker circuit_breaker.Config
}

type Session struct {
	// Path of the sqlite file holding a remembered session; empty keeps
	// the session in memory only.
	Path string `envconfig:"CATALOG_SESSION_PATH" default:"catalog-session.db"`
}

type Form struct {
	PasswordPolicy string `envconfig:"CATALOG_PASSWORD_POLICY" default:"strict"`
}

type Config struct {
	API     API
	Session Session
	Form    Form
	Kafka   kafka.Config
	Log     logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment. Options are applied on top of the
// environment so command line flags win.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		config, err := Load(ops...)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
	})

	return cfg
}

// Load is NewConfig without the process-wide cache.
func Load(ops ...Option) (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return Config{}, errors.Wrap(err, "envconfig")
	}
	for _, op := range ops {
		op(&config)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.API.AuthMode {
	case AuthToken, AuthSession:
	default:
		return errors.Errorf("unknown auth mode %q, want %q or %q", c.API.AuthMode, AuthToken, AuthSession)
	}
	switch c.API.CoverMode {
	case CoverBase64, CoverMedia:
	default:
		return errors.Errorf("unknown cover mode %q, want %q or %q", c.API.CoverMode, CoverBase64, CoverMedia)
	}
	if c.API.BaseURL == "" {
		return errors.New("api base url is required")
	}
	switch strings.ToLower(c.Form.PasswordPolicy) {
	case "", "strict", "legacy":
	default:
		return errors.Errorf("unknown password policy %q, want strict or legacy", c.Form.PasswordPolicy)
	}
	if c.API.RPS < 0 {
		return errors.New("rps must not be negative")
	}
	return nil
}

func PrintConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
