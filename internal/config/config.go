package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	Env          string
	JWTSecret    string
	JWTExpire    time.Duration
	StoreURL     string
	StoreTimeout time.Duration
	CORSOrigin   string
	BcryptCost   int
	LogFile      string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-change-in-production"
	}
	expire := 168 * time.Hour // one week
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			expire = d
		} else {
			log.Printf("[config] bad JWT_EXPIRE %q, keeping %s", v, expire)
		}
	}
	storeURL := os.Getenv("STORE_URL")
	if storeURL == "" {
		storeURL = "http://localhost:3001"
	}
	storeTimeout := 10 * time.Second
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			storeTimeout = d
		}
	}
	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	cost := 10
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 10 {
			cost = n
		} else {
			log.Printf("[config] bad BCRYPT_COST %q, keeping %d", v, cost)
		}
	}
	logFile := os.Getenv("LOG_FILE")

	cfg := Config{
		Port:         port,
		Env:          env,
		JWTSecret:    secret,
		JWTExpire:    expire,
		StoreURL:     storeURL,
		StoreTimeout: storeTimeout,
		CORSOrigin:   origin,
		BcryptCost:   cost,
		LogFile:      logFile,
	}
	log.Printf("[config] PORT=%s APP_ENV=%s STORE_URL=%s JWT_EXPIRE=%s CORS_ORIGIN=%s",
		cfg.Port, cfg.Env, cfg.StoreURL, cfg.JWTExpire, cfg.CORSOrigin)
	return cfg
}
