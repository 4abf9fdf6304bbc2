package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"starttls-hq/everywhere/pkg/config"
	"starttls-hq/everywhere/pkg/policy/codec"
	"starttls-hq/everywhere/pkg/policy/model"
)

// loadPolicy reads the cached policy and merges the overrides document over
// it when one is configured and present.
func loadPolicy(cfg *config.Config) (*model.Config, error) {
	policy, err := codec.ReadFile(cfg.PolicyPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load policy %s: %w", cfg.PolicyPath(), err)
	}

	path := cfg.OverridesPath()
	if path == "" {
		return policy, nil
	}

	overrides, err := codec.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("overrides file not present", "path", path)
		return policy, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides %s: %w", path, err)
	}

	merged, err := policy.Merge(overrides)
	if err != nil {
		return nil, fmt.Errorf("failed to apply overrides %s: %w", path, err)
	}
	slog.Debug("applied policy overrides", "path", path, "domains", merged.Len())
	return merged, nil
}
