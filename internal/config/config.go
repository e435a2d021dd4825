package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database" validate:"required"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq" validate:"required"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Admin    AdminConfig    `yaml:"admin"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Database string `yaml:"database" validate:"required"`
}

type RabbitMQConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required,min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
}

type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
}

type AdminConfig struct {
	Token string `yaml:"token"`
}

type SweeperConfig struct {
	Schedule string `yaml:"schedule"`
}

// Load reads and validates the YAML config at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sweeper.Schedule == "" {
		c.Sweeper.Schedule = "0 * * * *" // hourly
	}
	if c.Stripe.SuccessURL == "" {
		c.Stripe.SuccessURL = "http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}"
	}
	if c.Stripe.CancelURL == "" {
		c.Stripe.CancelURL = "http://localhost:3000"
	}
}
