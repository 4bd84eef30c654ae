package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the tableside service
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Events   EventsConfig   `yaml:"events"`
	Ordering OrderingConfig `yaml:"ordering"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

// StorageConfig selects the key-value backend
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, file or postgres
	Path    string `yaml:"path"`    // file backend only
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// EventsConfig controls the optional order-placed fan-out
type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exchange string `yaml:"exchange"`
}

// OrderingConfig holds order-placement behavior settings
type OrderingConfig struct {
	NavigateDelaySeconds int `yaml:"navigate_delay_seconds"`
}

// Load reads configuration from a YAML file
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := defaults()
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for section headers
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Parse key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if err := config.setValue(currentSection, key, value); err != nil {
				return nil, fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return config, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 3000, BaseURL: "http://localhost:3000"},
		Storage:  StorageConfig{Backend: "file", Path: "tableside.json"},
		Events:   EventsConfig{Exchange: "orders_fanout"},
		Ordering: OrderingConfig{NavigateDelaySeconds: 2},
	}
}

// setValue sets a configuration value based on section and key
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "server":
		return c.setServerValue(key, value)
	case "storage":
		return c.setStorageValue(key, value)
	case "database":
		return c.setDatabaseValue(key, value)
	case "rabbitmq":
		return c.setRabbitMQValue(key, value)
	case "events":
		return c.setEventsValue(key, value)
	case "ordering":
		return c.setOrderingValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setServerValue(key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Server.Port = port
	case "base_url":
		c.Server.BaseURL = strings.Trim(value, `"`)
	default:
		return fmt.Errorf("unknown server key: %s", key)
	}
	return nil
}

func (c *Config) setStorageValue(key, value string) error {
	switch key {
	case "backend":
		switch value {
		case "memory", "file", "postgres":
			c.Storage.Backend = value
		default:
			return fmt.Errorf("backend must be one of: memory, file, postgres")
		}
	case "path":
		c.Storage.Path = strings.Trim(value, `"`)
	default:
		return fmt.Errorf("unknown storage key: %s", key)
	}
	return nil
}

func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

func (c *Config) setRabbitMQValue(key, value string) error {
	switch key {
	case "host":
		c.RabbitMQ.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.RabbitMQ.Port = port
	case "user":
		c.RabbitMQ.User = value
	case "password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown rabbitmq key: %s", key)
	}
	return nil
}

func (c *Config) setEventsValue(key, value string) error {
	switch key {
	case "enabled":
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid enabled value: %w", err)
		}
		c.Events.Enabled = enabled
	case "exchange":
		c.Events.Exchange = value
	default:
		return fmt.Errorf("unknown events key: %s", key)
	}
	return nil
}

func (c *Config) setOrderingValue(key, value string) error {
	switch key {
	case "navigate_delay_seconds":
		delay, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid navigate_delay_seconds value: %w", err)
		}
		if delay < 0 {
			return fmt.Errorf("navigate_delay_seconds must not be negative")
		}
		c.Ordering.NavigateDelaySeconds = delay
	default:
		return fmt.Errorf("unknown ordering key: %s", key)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
