// Package config loads the application configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

// Defaults applied when the corresponding config values are absent.
const (
	DefaultMinPasswordLength = 8

	DefaultSessionTTL      = 7 * 24 * time.Hour
	DefaultRememberMeTTL   = 30 * 24 * time.Hour
	DefaultVerificationTTL = 24 * time.Hour

	DefaultPruneInterval = time.Hour
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port     int `json:"port" yaml:"port"`
		Timeouts struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`

		// VerifyRedirectURL is where the verify-email endpoint redirects the
		// browser; a status query flag is appended.
		VerifyRedirectURL string `json:"verifyRedirectUrl" yaml:"verifyRedirectUrl"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	SMTP *SMTPConfig `json:"smtp" yaml:"smtp"`
}

// AuthConfig defines credential and session lifecycle configuration.
type AuthConfig struct {
	BcryptCost        int           `json:"bcryptCost" yaml:"bcryptCost"`
	MinPasswordLength int           `json:"minPasswordLength" yaml:"minPasswordLength"`
	SessionTTL        time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
	RememberMeTTL     time.Duration `json:"rememberMeTtl" yaml:"rememberMeTtl"`
	VerificationTTL   time.Duration `json:"verificationTtl" yaml:"verificationTtl"`

	// PruneInterval is how often the janitor sweeps expired sessions and
	// verification tokens out of the database.
	PruneInterval time.Duration `json:"pruneInterval" yaml:"pruneInterval"`
}

// SMTPConfig defines the outbound mail transport. Host, username and
// password are required at send time; the mailer refuses to dispatch
// without them rather than failing silently.
type SMTPConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	From     string `json:"from" yaml:"from"`

	// BaseURL is the public origin embedded into verification links.
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// IsProduction reports whether the service runs in a production environment.
// Session cookies are marked Secure only in production so local development
// over plain HTTP keeps working.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env.Env, "production")
}

// LoadWithEnv reads <name>.yaml through koanf and layers environment
// variables on top, so any file value can be overridden per deployment.
func LoadWithEnv[T any](name string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	configFile, err := locateConfigFile(name, configPath)
	if err != nil {
		return nil, err
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", name)
	}

	// Env keys are aligned against the keys the YAML file already declared.
	// Example: SMTP_BASEURL -> smtp.baseUrl, not smtp.baseurl.
	fileKeys := koanfInstance.Raw()
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			return canonicalizeEnvKey(k, fileKeys), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Field matching stays case-insensitive for env overrides.
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", name)
	}

	return cfg, nil
}

// locateConfigFile returns the first <name>.yaml found under the default
// path followed by the given paths, resolved against the working directory.
func locateConfigFile(name string, configPath []string) (string, error) {
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	for _, path := range searchPaths {
		candidate := filepath.Join(path, name+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", errors.Errorf("config file %s.yaml not found in any search path", name)
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyAuthDefaults(cfg)

	return cfg, nil
}

func applyAuthDefaults(cfg *Config) {
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.MinPasswordLength <= 0 {
		cfg.Auth.MinPasswordLength = DefaultMinPasswordLength
	}
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = DefaultSessionTTL
	}
	if cfg.Auth.RememberMeTTL <= 0 {
		cfg.Auth.RememberMeTTL = DefaultRememberMeTTL
	}
	if cfg.Auth.VerificationTTL <= 0 {
		cfg.Auth.VerificationTTL = DefaultVerificationTTL
	}
	if cfg.Auth.PruneInterval <= 0 {
		cfg.Auth.PruneInterval = DefaultPruneInterval
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
