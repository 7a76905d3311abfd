package config

// ServerConfig holds configuration for the local store replica
type ServerConfig struct {
	Port string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	return ServerConfig{
		Port: valueOrDefault(getenv("PORT"), "8080"),
	}
}
