package config

import "sync"

var (
	globalMu     sync.RWMutex
	globalConfig *Config
	initOnce     sync.Once
)

// Initialize loads the configuration at path (with environment overrides)
// into the process-wide instance. Only the first call loads; later calls
// return nil and keep the existing instance.
func Initialize(path string) error {
	var err error
	initOnce.Do(func() {
		var cfg *Config
		if cfg, err = LoadConfigWithEnvOverrides(path); err == nil {
			SetConfig(cfg)
		}
	})
	return err
}

// GetConfig returns the process-wide configuration, or nil before a
// successful Initialize.
func GetConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// SetConfig replaces the process-wide configuration.
func SetConfig(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalConfig = cfg
}
