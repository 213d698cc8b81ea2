// Package config handles configuration for the server component,
// including defaults, a YAML file overlay, and command-line flags.
package config

import (
	"time"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// MemoryDSN selects the in-memory credential store instead of PostgreSQL.
const MemoryDSN = "memory"

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses of the public endpoints.
//   - DatabaseDSN: PostgreSQL DSN (pgx), or MemoryDSN.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - BcryptCost: work factor for password hashing.
//   - FilterCapacity / FilterFPRate: sizing of the email existence filter.
//   - DBConnectAttempts / DBConnectDelay: startup ping retry policy.
type Config struct {
	HTTPAddr          string        `koanf:"http_addr"`
	GRPCAddr          string        `koanf:"grpc_addr"`
	DatabaseDSN       string        `koanf:"database_dsn"`
	SecretKey         string        `koanf:"secret_key"`
	BcryptCost        int           `koanf:"bcrypt_cost"`
	FilterCapacity    uint          `koanf:"filter_capacity"`
	FilterFPRate      float64       `koanf:"filter_fp_rate"`
	DBConnectAttempts uint64        `koanf:"db_connect_attempts"`
	DBConnectDelay    time.Duration `koanf:"db_connect_delay"`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.DatabaseDSN = "postgres://postgres:postgres@db:5432/postgres?sslmode=disable"
	c.SecretKey = "secretKey"
	c.BcryptCost = 10
	c.FilterCapacity = 1000
	c.FilterFPRate = 0.01
	c.DBConnectAttempts = 3
	c.DBConnectDelay = 3 * time.Second
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	errb := oops.Code("CONFIG_INVALID")
	switch {
	case c.HTTPAddr == "" || c.GRPCAddr == "":
		return errb.Errorf("http_addr and grpc_addr must not be empty")
	case c.SecretKey == "":
		return errb.Errorf("secret_key must not be empty")
	case c.DatabaseDSN == "":
		return errb.Errorf("database_dsn must not be empty")
	case c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost:
		return errb.With("bcrypt_cost", c.BcryptCost).Errorf("bcrypt_cost out of range")
	case c.FilterFPRate <= 0 || c.FilterFPRate >= 1:
		return errb.With("filter_fp_rate", c.FilterFPRate).Errorf("filter_fp_rate must be in (0, 1)")
	case c.FilterCapacity == 0:
		return errb.Errorf("filter_capacity must be positive")
	case c.DBConnectAttempts == 0:
		return errb.Errorf("db_connect_attempts must be positive")
	}
	return nil
}

// UsesMemoryStore reports whether the in-memory credential store is selected.
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseDSN == MemoryDSN
}
