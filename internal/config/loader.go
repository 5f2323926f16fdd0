package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/user/mleague-analyst/internal/pkg/paths"
)

const envPrefix = "MLEAGUE_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. DefaultConfig()
//  2. YAML file if MLEAGUE_CONFIG is set
//  3. env (prefix MLEAGUE_, "__" separates sections: MLEAGUE_SERVER__PORT)
//
// Credentials are read from OPENAI_API_KEY / ANTHROPIC_API_KEY only.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	cfg.Database.Path = paths.GetDBPath()

	k := koanf.New(".")

	if path := os.Getenv("MLEAGUE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyCredentials(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps MLEAGUE_LLM__MODEL -> llm.model.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// applyCredentials picks the API key matching the configured provider.
func applyCredentials(cfg *Config) {
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	switch cfg.LLM.Provider {
	case ProviderAnthropic:
		cfg.LLM.APIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	default:
		cfg.LLM.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
}
