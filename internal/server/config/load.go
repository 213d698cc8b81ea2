package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// ConfigFlag names the flag that points at the YAML config file.
const ConfigFlag = "config"

// RegisterFlags adds one flag per config key to fs, defaulting to the values
// from LoadDefaults. Flag names are the keys with '_' replaced by '-'.
//
//	--http-addr string            HTTP bind address
//	--grpc-addr string            gRPC bind address
//	--database-dsn string         PostgreSQL DSN, or "memory"
//	--secret-key string           JWT HMAC secret key
//	--bcrypt-cost int             bcrypt work factor
//	--filter-capacity uint        expected number of accounts
//	--filter-fp-rate float        target false-positive rate of the email filter
//	--db-connect-attempts uint    database ping attempts at startup
//	--db-connect-delay duration   delay between ping attempts
//	--config string               YAML config file
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.String("http-addr", d.HTTPAddr, "HTTP bind address")
	fs.String("grpc-addr", d.GRPCAddr, "gRPC bind address")
	fs.String("database-dsn", d.DatabaseDSN, `PostgreSQL DSN, or "memory" for the in-memory store`)
	fs.String("secret-key", d.SecretKey, "JWT HMAC secret key")
	fs.Int("bcrypt-cost", d.BcryptCost, "bcrypt work factor")
	fs.Uint("filter-capacity", d.FilterCapacity, "expected number of accounts for email filter sizing")
	fs.Float64("filter-fp-rate", d.FilterFPRate, "target false-positive rate of the email filter")
	fs.Uint64("db-connect-attempts", d.DBConnectAttempts, "database ping attempts at startup")
	fs.Duration("db-connect-delay", d.DBConnectDelay, "delay between database ping attempts")
	fs.StringP(ConfigFlag, "c", "", "YAML config file")
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the optional YAML file named by --config and finally from flags that
// were set explicitly on the command line.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	k := koanf.New(".")

	path, err := fs.GetString(ConfigFlag)
	if err != nil {
		return nil, oops.Code("CONFIG_FLAGS").Wrap(err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE").With("path", path).Wrap(err)
		}
	}

	// unchanged flags only fill keys the file did not set
	if err := k.Load(posflag.ProviderWithFlag(fs, ".", k, flagKey(fs)), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS").Wrap(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_DECODE").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func flagKey(fs *pflag.FlagSet) func(*pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if f.Name == ConfigFlag {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
	}
}
