package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath se usa cuando CONFIG_PATH no está definido.
const DefaultPath = "configs/config.yaml"

type Config struct {
	App struct {
		// dev | prod (formato de logs)
		Env     string `yaml:"env"`
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
		// local | prod (URLs de redirección del login)
		Profile string `yaml:"profile"`
	} `yaml:"app"`

	Server struct {
		Addr               string        `yaml:"addr"`
		CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
		ReadTimeout        time.Duration `yaml:"read_timeout"`
		WriteTimeout       time.Duration `yaml:"write_timeout"`
		ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`

		// TrustProxyHeaders: la IP del rate limit sale de X-Forwarded-For.
		// Activar sólo detrás de un proxy que reescribe ese header.
		TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
	} `yaml:"server"`

	JWT struct {
		// SecretKey en base64; la valida jwt.NewCodec al arrancar.
		SecretKey  string        `yaml:"secret_key"`
		AccessTTL  time.Duration `yaml:"access_ttl"`
		RefreshTTL time.Duration `yaml:"refresh_ttl"`
		TempTTL    time.Duration `yaml:"temp_ttl"`
	} `yaml:"jwt"`

	Login struct {
		LocalBaseURL   string `yaml:"local_base_url"`
		ProdBaseURL    string `yaml:"prod_base_url"`
		LocalLoginPath string `yaml:"local_login_path"`
		ProdLoginPath  string `yaml:"prod_login_path"`
		CookieDomain   string `yaml:"cookie_domain"`
	} `yaml:"login"`

	Storage struct {
		Driver       string        `yaml:"driver"` // postgres | memory
		DSN          string        `yaml:"dsn"`
		MaxConns     int           `yaml:"max_conns"`
		MinConns     int           `yaml:"min_conns"`
		QueryTimeout time.Duration `yaml:"query_timeout"`
		AutoMigrate  bool          `yaml:"auto_migrate"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // redis | memory
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		OpTimeout time.Duration `yaml:"op_timeout"`
	} `yaml:"cache"`

	Rate struct {
		Enabled    bool          `yaml:"enabled"`
		AuthLimit  int           `yaml:"auth_limit"`
		AuthWindow time.Duration `yaml:"auth_window"`
	} `yaml:"rate"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Providers struct {
		Google ProviderConfig `yaml:"google"`
		Kakao  ProviderConfig `yaml:"kakao"`
		Naver  ProviderConfig `yaml:"naver"`
	} `yaml:"providers"`
}

// ProviderConfig credenciales OAuth2 de un proveedor social.
type ProviderConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	RedirectURL  string   `yaml:"redirect_url"`
	Scopes       []string `yaml:"scopes"`
}

// Load lee el YAML (opcional: si path no existe se parte de cero), aplica
// overrides por env, completa defaults y valida.
func Load(path string) (*Config, error) {
	var c Config
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sin archivo: sólo env + defaults
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Path devuelve CONFIG_PATH o DefaultPath.
func Path() string {
	if v, ok := getEnvStr("CONFIG_PATH"); ok {
		return v
	}
	return DefaultPath
}

// sane defaults
func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.Name == "" {
		c.App.Name = "waggle"
	}
	if c.App.Profile == "" {
		c.App.Profile = "local"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.JWT.AccessTTL == 0 {
		c.JWT.AccessTTL = 30 * time.Minute
	}
	if c.JWT.RefreshTTL == 0 {
		c.JWT.RefreshTTL = 14 * 24 * time.Hour
	}
	if c.JWT.TempTTL == 0 {
		c.JWT.TempTTL = 60 * time.Second
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.QueryTimeout == 0 {
		c.Storage.QueryTimeout = 3 * time.Second
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.OpTimeout == 0 {
		c.Cache.OpTimeout = 2 * time.Second
	}
	if c.Rate.AuthLimit == 0 {
		c.Rate.AuthLimit = 30
	}
	if c.Rate.AuthWindow == 0 {
		c.Rate.AuthWindow = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnvOverrides() error {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_VERSION"); ok {
		c.App.Version = v
	}
	if v, ok := getEnvStr("SPRING_PROFILES_ACTIVE"); ok {
		c.App.Profile = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_PROFILE"); ok {
		c.App.Profile = strings.ToLower(v)
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvCSV("SERVER_CORS_ALLOWED_ORIGINS"); ok {
		c.Server.CORSAllowedOrigins = v
	}
	if v, ok := getEnvBool("SERVER_TRUST_PROXY_HEADERS"); ok {
		c.Server.TrustProxyHeaders = v
	}

	// JWT (TTLs en milisegundos)
	if v, ok := getEnvStr("JWT_SECRET_KEY"); ok {
		c.JWT.SecretKey = v
	}
	if v, ok, err := getEnvMillis("JWT_ACCESS_TOKEN_EXPIRE_TIME"); err != nil {
		return err
	} else if ok {
		c.JWT.AccessTTL = v
	}
	if v, ok, err := getEnvMillis("JWT_REFRESH_TOKEN_EXPIRE_TIME"); err != nil {
		return err
	} else if ok {
		c.JWT.RefreshTTL = v
	}
	if v, ok := getEnvDur("TEMP_TOKEN_TTL"); ok {
		c.JWT.TempTTL = v
	}

	// LOGIN
	if v, ok := getEnvStr("LOCAL_FULL_URL"); ok {
		c.Login.LocalBaseURL = v
	}
	if v, ok := getEnvStr("PROD_HTTPS_FULL_URL"); ok {
		c.Login.ProdBaseURL = v
	}
	if v, ok := getEnvStr("LOCAL_LOGIN_PROCESS_ENDPOINT"); ok {
		c.Login.LocalLoginPath = v
	}
	if v, ok := getEnvStr("PROD_LOGIN_PROCESS_ENDPOINT"); ok {
		c.Login.ProdLoginPath = v
	}
	if v, ok := getEnvStr("COOKIE_DOMAIN"); ok {
		c.Login.CookieDomain = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = v
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("STORAGE_MAX_CONNS"); ok {
		c.Storage.MaxConns = v
	}
	if v, ok := getEnvInt("STORAGE_MIN_CONNS"); ok {
		c.Storage.MinConns = v
	}
	if v, ok := getEnvDur("STORAGE_QUERY_TIMEOUT"); ok {
		c.Storage.QueryTimeout = v
	}
	if v, ok := getEnvBool("STORAGE_AUTO_MIGRATE"); ok {
		c.Storage.AutoMigrate = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}
	if v, ok := getEnvStr("REDIS_PREFIX"); ok {
		c.Cache.Redis.Prefix = v
	}
	if v, ok := getEnvDur("CACHE_OP_TIMEOUT"); ok {
		c.Cache.OpTimeout = v
	}

	// RATE
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_AUTH_LIMIT"); ok {
		c.Rate.AuthLimit = v
	}
	if v, ok := getEnvDur("RATE_AUTH_WINDOW"); ok {
		c.Rate.AuthWindow = v
	}

	// LOG
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// PROVIDERS
	providerEnv("GOOGLE", &c.Providers.Google)
	providerEnv("KAKAO", &c.Providers.Kakao)
	providerEnv("NAVER", &c.Providers.Naver)
	return nil
}

func providerEnv(prefix string, p *ProviderConfig) {
	if v, ok := getEnvBool(prefix + "_ENABLED"); ok {
		p.Enabled = v
	}
	if v, ok := getEnvStr(prefix + "_CLIENT_ID"); ok {
		p.ClientID = v
	}
	if v, ok := getEnvStr(prefix + "_CLIENT_SECRET"); ok {
		p.ClientSecret = v
	}
	if v, ok := getEnvStr(prefix + "_REDIRECT_URL"); ok {
		p.RedirectURL = v
	}
	if v, ok := getEnvCSV(prefix + "_SCOPES"); ok {
		p.Scopes = v
	}
}

// Validate junta todos los problemas en un solo error.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.AccessTTL <= 0 {
		errs = append(errs, errors.New("jwt.access_ttl must be positive"))
	}
	if c.JWT.RefreshTTL <= 0 {
		errs = append(errs, errors.New("jwt.refresh_ttl must be positive"))
	}
	if c.JWT.TempTTL <= 0 {
		errs = append(errs, errors.New("jwt.temp_ttl must be positive"))
	}

	switch c.App.Profile {
	case "local":
		if strings.TrimSpace(c.Login.LocalBaseURL) == "" {
			errs = append(errs, errors.New("login.local_base_url is required for profile local"))
		}
	case "prod":
		if strings.TrimSpace(c.Login.ProdBaseURL) == "" {
			errs = append(errs, errors.New("login.prod_base_url is required for profile prod"))
		}
	default:
		errs = append(errs, fmt.Errorf("app.profile %q is not local|prod", c.App.Profile))
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "memory":
	case "postgres", "pg", "postgresql":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			errs = append(errs, errors.New("storage.dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not postgres|memory", c.Storage.Driver))
	}

	switch strings.ToLower(c.Cache.Kind) {
	case "memory":
	case "redis":
		if strings.TrimSpace(c.Cache.Redis.Addr) == "" {
			errs = append(errs, errors.New("cache.redis.addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q is not redis|memory", c.Cache.Kind))
	}

	if c.Rate.Enabled && (c.Rate.AuthLimit <= 0 || c.Rate.AuthWindow <= 0) {
		errs = append(errs, errors.New("rate.auth_limit and rate.auth_window must be positive"))
	}

	for name, p := range c.EnabledProviders() {
		if strings.TrimSpace(p.ClientID) == "" || strings.TrimSpace(p.ClientSecret) == "" {
			errs = append(errs, fmt.Errorf("providers.%s: client_id and client_secret are required", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// EnabledProviders devuelve los proveedores con enabled=true indexados por tag.
func (c *Config) EnabledProviders() map[string]ProviderConfig {
	out := map[string]ProviderConfig{}
	if c.Providers.Google.Enabled {
		out["google"] = c.Providers.Google
	}
	if c.Providers.Kakao.Enabled {
		out["kakao"] = c.Providers.Kakao
	}
	if c.Providers.Naver.Enabled {
		out["naver"] = c.Providers.Naver
	}
	return out
}

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// getEnvMillis lee una duración expresada en milisegundos enteros.
func getEnvMillis(key string) (time.Duration, bool, error) {
	s, ok := getEnvStr(key)
	if !ok {
		return 0, false, nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("config: %s must be milliseconds: %w", key, err)
	}
	// un 0 explícito no cae al default
	if ms <= 0 {
		return 0, false, fmt.Errorf("config: %s must be positive milliseconds, got %d", key, ms)
	}
	return time.Duration(ms) * time.Millisecond, true, nil
}
func getEnvCSV(key string) ([]string, bool) {
	if s, ok := getEnvStr(key); ok {
		if strings.TrimSpace(s) == "" {
			return []string{}, true
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		return out, true
	}
	return nil, false
}
