package config

// AppConfig holds the application configuration
type AppConfig struct {
	ListenAddr      string
	HospitalBaseURL string
	RedisAddress    string
	SymmetricKey    string
	AllowedOrigins  []string
}

// GetHospitalBaseURL returns the upstream hospital API base URL.
func (c *AppConfig) GetHospitalBaseURL() string {
	return c.HospitalBaseURL
}
