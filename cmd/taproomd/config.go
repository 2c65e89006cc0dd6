package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	backendMemory  = "memory"
	backendTrie    = "trie"
	backendLevelDB = "leveldb"
)

type config struct {
	Listen  string `yaml:"listen"`
	Backend string `yaml:"backend"`
	// Path is the leveldb directory; only used with the leveldb backend.
	Path  string `yaml:"path"`
	Debug bool   `yaml:"debug"`
}

func defaultConfig() config {
	return config{
		Listen:  ":5001",
		Backend: backendMemory,
		Path:    "taproom.db",
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	switch cfg.Backend {
	case backendMemory, backendTrie, backendLevelDB:
	default:
		return cfg, fmt.Errorf("unknown backend %q (want memory, trie or leveldb)", cfg.Backend)
	}
	return cfg, nil
}
