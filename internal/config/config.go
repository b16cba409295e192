package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Neo4j   Neo4jConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	GinMode         string
	AllowOrigins    []string
}

type SessionConfig struct {
	Name   string
	Secret string
	Dir    string
	Secure bool
	MaxAge int
}

type Neo4jConfig struct {
	Database       string
	ConnectTimeout int
}

type LoggingConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnvAsString("SERVER_HOST", "127.0.0.1"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
			GinMode:         getEnvAsString("GIN_MODE", "release"),
			AllowOrigins:    getEnvAsList("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
		Session: SessionConfig{
			Name:   getEnvAsString("SESSION_NAME", "neo4j_explorer"),
			Secret: getEnvAsString("SESSION_SECRET", ""),
			Dir:    getEnvAsString("SESSION_DIR", os.TempDir()),
			Secure: getEnvAsBool("SESSION_SECURE", false),
			MaxAge: getEnvAsInt("SESSION_MAX_AGE", 12*3600),
		},
		Neo4j: Neo4jConfig{
			Database:       getEnvAsString("NEO4J_DATABASE", ""),
			ConnectTimeout: getEnvAsInt("NEO4J_CONNECT_TIMEOUT", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnvAsString("LOG_LEVEL", "info"),
			Format: getEnvAsString("LOG_FORMAT", "json"),
		},
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535: %d", c.Server.Port)
	}
	if c.Session.Secret == "" && c.Server.GinMode == "release" {
		return fmt.Errorf("SESSION_SECRET is required in release mode")
	}
	if c.Session.MaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive: %d", c.Session.MaxAge)
	}
	if c.Neo4j.ConnectTimeout < 0 {
		return fmt.Errorf("NEO4J_CONNECT_TIMEOUT must not be negative: %d", c.Neo4j.ConnectTimeout)
	}
	return nil
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
