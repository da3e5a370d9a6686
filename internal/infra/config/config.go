package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port string `yaml:"port"`
	} `yaml:"server"`
	TelegramBot struct {
		Token        string        `yaml:"token"`
		Mode         string        `yaml:"mode"` // "polling" или "webhook"
		PollInterval time.Duration `yaml:"poll_interval"`
		WebhookURL   string        `yaml:"webhook_url"`
		ListenAddr   string        `yaml:"listen_addr"`
	} `yaml:"telegram_bot"`
	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"dbname"`
	} `yaml:"database"`
	Logger struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logger"`
	Quiz struct {
		QuestionsPerTest int    `yaml:"questions_per_test"`
		CatalogPageSize  int    `yaml:"catalog_page_size"`
		LeaderboardSize  int    `yaml:"leaderboard_size"`
		SeedFile         string `yaml:"seed_file"`
	} `yaml:"quiz"`
}

func LoadConfig(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			fmt.Println("f.Close() failed ", err)
		}
	}(f)

	config := &Config{}
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.TelegramBot.Mode == "" {
		c.TelegramBot.Mode = "polling"
	}
	if c.TelegramBot.PollInterval == 0 {
		c.TelegramBot.PollInterval = 10 * time.Second
	}
	if c.Quiz.QuestionsPerTest == 0 {
		c.Quiz.QuestionsPerTest = 10
	}
	if c.Quiz.CatalogPageSize == 0 {
		c.Quiz.CatalogPageSize = 5
	}
	if c.Quiz.LeaderboardSize == 0 {
		c.Quiz.LeaderboardSize = 5
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}
