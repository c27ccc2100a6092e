package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/apolloveritas/dirsync/directory"
	"github.com/apolloveritas/dirsync/dirsync"
	"github.com/apolloveritas/dirsync/mirror"
	statesql "github.com/apolloveritas/dirsync/state/sql"
)

// Config is the on-disk configuration: a source and target directory
// provider, the scope policy, and an optional state store.
type Config struct {
	Source json.RawMessage `json:"source"`
	Target json.RawMessage `json:"target"`
	Policy json.RawMessage `json:"policy"`
	State  json.RawMessage `json:"state"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Source == nil || cfg.Target == nil {
		return nil, fmt.Errorf("config must name a source and a target directory")
	}
	return cfg, nil
}

func (c *Config) syncer() (*mirror.Syncer, func(), error) {
	source, err := directory.Load(c.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("load source: %w", err)
	}
	target, err := directory.Load(c.Target)
	if err != nil {
		return nil, nil, fmt.Errorf("load target: %w", err)
	}

	syncer := &mirror.Syncer{Source: source, Target: target}

	if c.Policy != nil {
		policy, err := dirsync.PolicyFromJson(c.Policy)
		if err != nil {
			return nil, nil, err
		}
		syncer.Policy = *policy
	}

	var state *statesql.Provider
	if c.State != nil {
		state, err = statesql.FromJson(c.State)
		if err != nil {
			return nil, nil, fmt.Errorf("load state store: %w", err)
		}
		if err := state.Initialize(); err != nil {
			return nil, nil, fmt.Errorf("initialize state store: %w", err)
		}
		syncer.Recorder = state
	}

	cleanup := func() {
		_ = source.Close()
		_ = target.Close()
		if state != nil {
			_ = state.Close()
		}
	}
	return syncer, cleanup, nil
}

func (c *Config) stateStore() (*statesql.Provider, error) {
	if c.State == nil {
		return nil, fmt.Errorf("config has no state store")
	}
	state, err := statesql.FromJson(c.State)
	if err != nil {
		return nil, err
	}
	if err := state.Initialize(); err != nil {
		return nil, err
	}
	return state, nil
}
