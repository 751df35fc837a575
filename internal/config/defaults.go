package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		SPAPI: SPAPIConfig{
			MarketplaceID:  "ATVPDKIKX0DER", // US
			Endpoint:       "https://sellingpartnerapi-na.amazon.com",
			LWAURL:         "https://api.amazon.com/auth/o2/token",
			TimeoutSeconds: 15,
		},
		Auth: AuthConfig{
			SessionTTLHours: 12,
		},
		Demo: DemoConfig{
			Seed: 1,
		},
		Cache: CacheConfig{
			TTLSeconds: 60,
			MaxEntries: 16,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/viktory",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
