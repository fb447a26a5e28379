// Package config centraliza o carregamento da configuração estática do gate.
// É lida uma única vez, no start do processo.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"devport-gateway/middleware/gate/domain"
)

// ErrInvalid envolve todos os erros de validação.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	ListenAddr  string
	UpstreamURL string
	Production  bool

	SessionCookie string
	Routes        domain.Routes

	Store       StoreConfig
	Concurrency ConcurrencyConfig
	Stats       StatsConfig
}

type StoreConfig struct {
	Shards           int
	SweepProbability float64
	SweepMinInterval time.Duration
}

type ConcurrencyConfig struct {
	Max     int
	Timeout time.Duration
}

type StatsConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
	Bucket        string
	TrackKeys     bool
	Buffer        int
}

// DefaultRatePolicies em ordem de declaração: o primeiro prefixo que casa vence.
func DefaultRatePolicies() []domain.RoutePolicy {
	return []domain.RoutePolicy{
		{PathPrefix: "/api/auth/register", Limit: 5, Window: time.Hour},
		{PathPrefix: "/api/auth", Limit: 10, Window: 15 * time.Minute},
		{PathPrefix: "/api/messages", Limit: 5, Window: time.Minute},
		{PathPrefix: "/api/upload", Limit: 20, Window: time.Minute},
		{PathPrefix: "/api", Limit: 60, Window: time.Minute},
	}
}

// Load lê .env (se existir) e as variáveis de ambiente, aplica o arquivo de
// rotas (GATE_ROUTES_FILE) e valida.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv monta a configuração a partir de getenv; útil em testes.
func FromEnv(getenv func(string) string) (Config, error) {
	e := env(getenv)

	cfg := Config{
		ListenAddr:    e.str("LISTEN_ADDR", ":8080"),
		UpstreamURL:   e.str("UPSTREAM_URL", ""),
		SessionCookie: e.str("SESSION_COOKIE_NAME", "authjs.session-token"),
		Routes: domain.Routes{
			ProtectedPrefixes: e.list("PROTECTED_PREFIXES", []string{"/dashboard"}),
			AuthOnlyPaths:     e.list("AUTH_ONLY_PATHS", []string{"/login", "/register"}),
			LoginPath:         e.str("LOGIN_PATH", "/login"),
			DashboardPath:     e.str("DASHBOARD_PATH", "/dashboard"),
		},
	}

	var err error
	if cfg.Production, err = e.boolean("GATE_PRODUCTION", strings.EqualFold(e.str("APP_ENV", ""), "production")); err != nil {
		return Config{}, err
	}

	cfg.Routes.RatePolicies = DefaultRatePolicies()
	if raw := e.str("RATE_POLICIES", ""); raw != "" {
		if cfg.Routes.RatePolicies, err = ParsePolicies(raw); err != nil {
			return Config{}, err
		}
	}

	if path := e.str("GATE_ROUTES_FILE", ""); path != "" {
		if err := applyRoutesFile(path, &cfg.Routes); err != nil {
			return Config{}, err
		}
	}

	if cfg.Store.Shards, err = e.integer("STORE_SHARDS", 32); err != nil {
		return Config{}, err
	}
	if cfg.Store.SweepProbability, err = e.float("SWEEP_PROBABILITY", 0.01); err != nil {
		return Config{}, err
	}
	if cfg.Store.SweepMinInterval, err = e.duration("SWEEP_MIN_INTERVAL", 10*time.Second); err != nil {
		return Config{}, err
	}

	if cfg.Concurrency.Max, err = e.integer("CONCURRENCY_MAX", 0); err != nil {
		return Config{}, err
	}
	if cfg.Concurrency.Timeout, err = e.duration("CONCURRENCY_TIMEOUT", 0); err != nil {
		return Config{}, err
	}

	if cfg.Stats, err = buildStatsConfig(e); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func buildStatsConfig(e env) (StatsConfig, error) {
	var (
		s   StatsConfig
		err error
	)
	if s.Enabled, err = e.boolean("RATE_STATS_ENABLED", false); err != nil {
		return s, err
	}
	s.RedisAddr = e.str("RATE_STATS_REDIS_ADDR", "")
	s.RedisPassword = e.str("RATE_STATS_REDIS_PASSWORD", "")
	if s.RedisDB, err = e.integer("RATE_STATS_REDIS_DB", 0); err != nil {
		return s, err
	}
	s.Prefix = e.str("RATE_STATS_PREFIX", "gate:stats")
	if s.TTL, err = e.duration("RATE_STATS_TTL", 24*time.Hour); err != nil {
		return s, err
	}
	s.Bucket = e.str("RATE_STATS_BUCKET", "minute")
	if s.TrackKeys, err = e.boolean("RATE_STATS_TRACK_KEYS", false); err != nil {
		return s, err
	}
	if s.Buffer, err = e.integer("RATE_STATS_BUFFER", 1024); err != nil {
		return s, err
	}
	return s, nil
}

// ParsePolicies lê "prefixo:limite:janela" separados por vírgula, mantendo a
// ordem. Ex.: "/api/messages:5:60s,/api:60:1m".
func ParsePolicies(raw string) ([]domain.RoutePolicy, error) {
	var out []domain.RoutePolicy
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("%w: rate policy must follow PREFIX:LIMIT:WINDOW: %q", ErrInvalid, item)
		}
		limit, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid limit for %s: %v", ErrInvalid, parts[0], err)
		}
		window, err := time.ParseDuration(strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid window for %s: %v", ErrInvalid, parts[0], err)
		}
		out = append(out, domain.RoutePolicy{PathPrefix: strings.TrimSpace(parts[0]), Limit: limit, Window: window})
	}
	return out, nil
}

func (c Config) Validate() error {
	for _, p := range c.Routes.RatePolicies {
		if p.PathPrefix == "" {
			return fmt.Errorf("%w: rate policy with empty prefix", ErrInvalid)
		}
		if p.Limit < 1 {
			return fmt.Errorf("%w: rate policy %s: limit must be >= 1", ErrInvalid, p.PathPrefix)
		}
		if p.Window <= 0 {
			return fmt.Errorf("%w: rate policy %s: window must be > 0", ErrInvalid, p.PathPrefix)
		}
	}
	if !strings.HasPrefix(c.Routes.LoginPath, "/") || !strings.HasPrefix(c.Routes.DashboardPath, "/") {
		return fmt.Errorf("%w: LOGIN_PATH and DASHBOARD_PATH must start with /", ErrInvalid)
	}
	if c.Store.SweepProbability < 0 || c.Store.SweepProbability > 1 {
		return fmt.Errorf("%w: SWEEP_PROBABILITY must be within [0,1]", ErrInvalid)
	}
	if c.Concurrency.Max < 0 {
		return fmt.Errorf("%w: CONCURRENCY_MAX must be >= 0", ErrInvalid)
	}
	if c.Stats.Enabled && strings.TrimSpace(c.Stats.RedisAddr) == "" {
		return fmt.Errorf("%w: RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true", ErrInvalid)
	}
	return nil
}

type env func(string) string

func (e env) str(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e env) list(key string, def []string) []string {
	v := e.str(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (e env) integer(key string, def int) (int, error) {
	v := e.str(key, "")
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return i, nil
}

func (e env) float(key string, def float64) (float64, error) {
	v := e.str(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return f, nil
}

func (e env) boolean(key string, def bool) (bool, error) {
	v := e.str(key, "")
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return b, nil
}

func (e env) duration(key string, def time.Duration) (time.Duration, error) {
	v := e.str(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return d, nil
}
