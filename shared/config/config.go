package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	JwtTTL        time.Duration `yaml:"jwt_ttl"`
	PostsPerPage  int           `yaml:"posts_per_page"`  // default page size for GET /posts
	MaxPageSize   int           `yaml:"max_page_size"`   // hard cap on the limit query param
	LogLevel      string        `yaml:"log_level"`
	LogJSON       bool          `yaml:"log_json"`
	SecureCookies bool          `yaml:"secure_cookies"`
}

type Private struct {
	JwtKey     string     `yaml:"jwt_key"`
	Pg         Pg         `yaml:"pg"`
	Moderation Moderation `yaml:"moderation"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

// Moderation holds the external text moderation endpoint credentials.
type Moderation struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
