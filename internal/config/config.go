package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/example/quadras-reserva/internal/booking"
)

type Config struct {
	APIBaseURL  string
	ListenAddr  string
	BaseURL     string
	Location    *time.Location
	HTTPTimeout time.Duration
	Origin      string
	Tracing     bool

	// cache; empty RedisAddr disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// web
	CookieHashKey  []byte
	CookieBlockKey []byte
	CSRFKey        []byte
}

// FromEnv reads the settings every command needs. Web keys are loaded
// separately by WebKeys.
func FromEnv() (Config, error) {
	cfg := Config{
		APIBaseURL:    getenv("API_BASE_URL", "http://localhost:4000"),
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		BaseURL:       getenv("BASE_URL", "http://localhost:8080"),
		Origin:        getenv("BOOKING_ORIGIN", booking.DefaultOrigin),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	timeoutSec, err := strconv.Atoi(getenv("HTTP_TIMEOUT_SECONDS", "10"))
	if err != nil || timeoutSec < 1 {
		return Config{}, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS")
	}
	cfg.HTTPTimeout = time.Duration(timeoutSec) * time.Second

	cfg.RedisDB, err = strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil || cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("invalid REDIS_DB")
	}

	ttlSec, err := strconv.Atoi(getenv("CACHE_TTL_SECONDS", "600"))
	if err != nil || ttlSec < 1 {
		return Config{}, fmt.Errorf("invalid CACHE_TTL_SECONDS")
	}
	cfg.CacheTTL = time.Duration(ttlSec) * time.Second

	cfg.Tracing, err = strconv.ParseBool(getenv("ENABLE_TRACING", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ENABLE_TRACING")
	}

	return cfg, nil
}

// WebKeys loads the cookie and CSRF keys the web server requires.
func (c *Config) WebKeys() error {
	keys := []struct {
		env  string
		dst  *[]byte
		desc string
	}{
		{"SESSION_HASH_KEY", &c.CookieHashKey, "32 or 64 bytes"},
		{"SESSION_BLOCK_KEY", &c.CookieBlockKey, "16, 24 or 32 bytes"},
		{"CSRF_KEY", &c.CSRFKey, "32 bytes"},
	}
	for _, k := range keys {
		v := os.Getenv(k.env)
		if v == "" {
			return fmt.Errorf("%s is required (%s, base64)", k.env, k.desc)
		}
		b, err := decodeB64(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k.env, err)
		}
		*k.dst = b
	}
	if n := len(c.CookieBlockKey); n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("SESSION_BLOCK_KEY must decode to 16, 24 or 32 bytes, got %d", n)
	}
	if len(c.CSRFKey) != 32 {
		return fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(c.CSRFKey))
	}
	return nil
}

func decodeB64(s string) ([]byte, error) {
	b, err := os.ReadFile(s)
	if err == nil {
		// allow pointing to file path for k8s secret mounts
		s = string(b)
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
