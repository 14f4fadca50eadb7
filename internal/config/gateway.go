package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/timex"
)

// Gateway holds runtime settings for the public gateway.
//
// RedisAddr is optional; when empty verified identities are not cached.
type Gateway struct {
	Address         string
	IdentityURL     string
	ContentAddr     string
	IdentityTimeout time.Duration
	ContentTimeout  time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CacheTTL        time.Duration
	LogLevel        string
}

func (c *Gateway) LoadDefaults() {
	c.Address = ":8000"
	c.IdentityURL = "http://localhost:8001"
	c.ContentAddr = "localhost:50051"
	c.IdentityTimeout = 5 * time.Second
	c.ContentTimeout = 5 * time.Second
	c.CacheTTL = time.Minute
	c.LogLevel = "info"
}

type gatewayJSON struct {
	Address         string         `json:"address"`
	IdentityURL     string         `json:"identity_url"`
	ContentAddr     string         `json:"content_addr"`
	IdentityTimeout timex.Duration `json:"identity_timeout"`
	ContentTimeout  timex.Duration `json:"content_timeout"`
	RedisAddr       string         `json:"redis_addr"`
	RedisPassword   string         `json:"redis_password"`
	RedisDB         int            `json:"redis_db"`
	CacheTTL        timex.Duration `json:"cache_ttl"`
	LogLevel        string         `json:"log_level"`
}

// LoadGateway resolves the gateway settings.
//
// Environment: ADDRESS, IDENTITY_URL, CONTENT_ADDR, IDENTITY_TIMEOUT,
// CONTENT_TIMEOUT, REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, CACHE_TTL, LOG_LEVEL.
// Flags: -a, -i identity url, -g content address, -r redis address, -l.
func LoadGateway(args []string) (*Gateway, error) {
	c := &Gateway{}
	c.LoadDefaults()

	j := gatewayJSON{}
	if ok, err := readJSON(args, &j); err != nil {
		return nil, err
	} else if ok {
		setString(&c.Address, j.Address)
		setString(&c.IdentityURL, j.IdentityURL)
		setString(&c.ContentAddr, j.ContentAddr)
		setDuration(&c.IdentityTimeout, j.IdentityTimeout.Duration)
		setDuration(&c.ContentTimeout, j.ContentTimeout.Duration)
		setString(&c.RedisAddr, j.RedisAddr)
		setString(&c.RedisPassword, j.RedisPassword)
		if j.RedisDB != 0 {
			c.RedisDB = j.RedisDB
		}
		setDuration(&c.CacheTTL, j.CacheTTL.Duration)
		setString(&c.LogLevel, j.LogLevel)
	}

	envString("ADDRESS", &c.Address)
	envString("IDENTITY_URL", &c.IdentityURL)
	envString("CONTENT_ADDR", &c.ContentAddr)
	envString("REDIS_ADDR", &c.RedisAddr)
	envString("REDIS_PASSWORD", &c.RedisPassword)
	envString("LOG_LEVEL", &c.LogLevel)
	for key, dst := range map[string]*time.Duration{
		"IDENTITY_TIMEOUT": &c.IdentityTimeout,
		"CONTENT_TIMEOUT":  &c.ContentTimeout,
		"CACHE_TTL":        &c.CacheTTL,
	} {
		if err := envDuration(key, dst); err != nil {
			return nil, err
		}
	}
	if err := envInt("REDIS_DB", &c.RedisDB); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)
	fs.StringVar(&c.Address, "a", c.Address, "address and port to run server")
	fs.StringVar(&c.IdentityURL, "i", c.IdentityURL, "identity store base URL")
	fs.StringVar(&c.ContentAddr, "g", c.ContentAddr, "resource service gRPC address")
	fs.StringVar(&c.RedisAddr, "r", c.RedisAddr, "redis address for the identity cache")
	fs.StringVar(&c.LogLevel, "l", c.LogLevel, "log level")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return c, nil
}
