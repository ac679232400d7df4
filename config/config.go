package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Postgres struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (p Postgres) ConnStr() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s", p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type Ollama struct {
	Host           string `mapstructure:"host"`
	Port           string `mapstructure:"port"`
	EmbeddingModel string `mapstructure:"embeddingModel"`
	ChatModel      string `mapstructure:"chatModel"`
}

func (o *Ollama) Address() string {
	return fmt.Sprintf("http://%s:%s", o.Host, o.Port)
}

type Server struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Sheets struct {
	WorkbookID   string `mapstructure:"workbookId"`
	FetchTimeout int    `mapstructure:"fetchTimeoutSeconds"`
}

type Mall struct {
	Timezone string `mapstructure:"timezone"`
}

type Index struct {
	TopNDishes int `mapstructure:"topNDishes"`
}

type Config struct {
	Postgres Postgres `mapstructure:"postgres"`
	Ollama   Ollama   `mapstructure:"ollama"`
	Server   Server   `mapstructure:"server"`
	Sheets   Sheets   `mapstructure:"sheets"`
	Mall     Mall     `mapstructure:"mall"`
	Index    Index    `mapstructure:"index"`
}

func LoadConfig() *Config {
	viper.SetConfigFile("./config/config.yaml")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	if config.Mall.Timezone == "" {
		config.Mall.Timezone = "Europe/Madrid"
	}
	if config.Index.TopNDishes < 1 {
		config.Index.TopNDishes = 10
	}

	return &config
}
