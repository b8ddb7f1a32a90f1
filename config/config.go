// Package config loads claimagg settings from a YAML file, CLAIMAGG_*
// environment variables and command line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/axiom-crypto/axiom-kwenta-incentives/claim"
)

const EnvPrefix = "CLAIMAGG"

// Config mirrors the recognised keys.
type Config struct {
	ReferenceContract string `mapstructure:"reference_contract"`
	EventSchema       string `mapstructure:"event_schema"`
	AccountWord       int    `mapstructure:"account_word"`
	AccountLimb       string `mapstructure:"account_limb"`
	FeeWord           int    `mapstructure:"fee_word"`

	RPCURL    string `mapstructure:"rpc_url"`
	Workers   int    `mapstructure:"workers"`
	CacheSize int    `mapstructure:"cache_size"`
	KeysDir   string `mapstructure:"keys_dir"`

	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Default returns the Kwenta configuration.
func Default() Config {
	p := claim.DefaultParams()
	return Config{
		ReferenceContract: p.ReferenceContract.Hex(),
		EventSchema:       p.EventSchema.Hex(),
		AccountWord:       p.AccountField.Word,
		AccountLimb:       p.AccountField.Limb.String(),
		FeeWord:           p.FeeWord,
		Workers:           4,
		CacheSize:         1024,
		KeysDir:           "keys",
		LogLevel:          "info",
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("reference_contract", d.ReferenceContract)
	v.SetDefault("event_schema", d.EventSchema)
	v.SetDefault("account_word", d.AccountWord)
	v.SetDefault("account_limb", d.AccountLimb)
	v.SetDefault("fee_word", d.FeeWord)
	v.SetDefault("rpc_url", d.RPCURL)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("keys_dir", d.KeysDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)
}

// Load reads path (optional) and the environment. Flags in fs named after a
// key with dashes instead of underscores take precedence when set.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if fs != nil {
		for _, key := range v.AllKeys() {
			if f := fs.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, err
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return c, nil
}

// Params converts the circuit keys into claim.Params.
func (c Config) Params() (claim.Params, error) {
	if !common.IsHexAddress(c.ReferenceContract) {
		return claim.Params{}, fmt.Errorf("invalid reference_contract %q", c.ReferenceContract)
	}
	schema, err := hexutil.Decode(c.EventSchema)
	if err != nil || len(schema) != common.HashLength {
		return claim.Params{}, fmt.Errorf("invalid event_schema %q", c.EventSchema)
	}
	limb, err := claim.ParseLimb(c.AccountLimb)
	if err != nil {
		return claim.Params{}, fmt.Errorf("invalid account_limb: %w", err)
	}
	p := claim.Params{
		ReferenceContract: common.HexToAddress(c.ReferenceContract),
		EventSchema:       common.BytesToHash(schema),
		AccountField:      claim.FieldRef{Word: c.AccountWord, Limb: limb},
		FeeWord:           c.FeeWord,
	}
	if err := p.Validate(); err != nil {
		return claim.Params{}, err
	}
	return p, nil
}

var ErrNoRPC = errors.New("rpc_url is not set")

// RequireRPC fails when no node is configured.
func (c Config) RequireRPC() error {
	if c.RPCURL == "" {
		return ErrNoRPC
	}
	return nil
}
