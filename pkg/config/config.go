package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// AppConfig 全局配置实例
var AppConfig *Config

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string        `yaml:"port" env:"SERVER_PORT" default:"8801"`
	Mode         string        `yaml:"mode" env:"GIN_MODE" default:"debug"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" default:"mysql"`
	DSN             string        `yaml:"dsn" env:"MYSQL_DSN"`
	MaxIdleConns    int           `yaml:"max_idle_conns" default:"10"`
	MaxOpenConns    int           `yaml:"max_open_conns" default:"100"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"1h"`
	LogLevel        string        `yaml:"log_level" default:"info"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr         string        `yaml:"addr" env:"REDIS_ADDR" default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db" env:"REDIS_DB" default:"0"`
	PoolSize     int           `yaml:"pool_size" default:"10"`
	DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"3s"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	SigningKey string        `yaml:"signing_key" env:"JWT_SIGNING_KEY"`
	Expiry     time.Duration `yaml:"expiry" default:"24h"`
	Issuer     string        `yaml:"issuer" default:"civic-go-admin"`
}

// OpenAIConfig 外部审核/分类服务配置
type OpenAIConfig struct {
	APIKey            string        `yaml:"api_key" env:"OPENAI_API_KEY"`
	BaseURL           string        `yaml:"base_url" env:"OPENAI_BASE_URL" default:"https://api.openai.com"`
	ModerationTimeout time.Duration `yaml:"moderation_timeout" default:"100s"`
	ChatTimeout       time.Duration `yaml:"chat_timeout" default:"75s"`
	VisionTimeout     time.Duration `yaml:"vision_timeout" default:"30s"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `yaml:"level" default:"info"`
	Output   string `yaml:"output" default:"stdout"` // stdout, file, both
	FilePath string `yaml:"file_path" default:"logs/app.log"`
}

// InitConfig 初始化配置
func InitConfig() error {
	// 加载环境变量
	if err := loadEnv(); err != nil {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	// 创建默认配置
	config := &Config{}
	setDefaults(config)

	// 尝试从配置文件加载
	if err := loadFromFile(config); err != nil {
		log.Printf("Warning: failed to load config file: %v", err)
	}

	// 从环境变量覆盖配置
	if err := loadFromEnv(config); err != nil {
		return fmt.Errorf("failed to load config from environment: %w", err)
	}

	// 验证配置
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	AppConfig = config
	return nil
}

// loadEnv 加载环境变量文件
func loadEnv() error {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFiles := []string{
		".env",
		fmt.Sprintf(".env.%s", env),
		".env.local",
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			if err := godotenv.Load(file); err != nil {
				return err
			}
		}
	}

	return nil
}

// setDefaults 设置默认值
func setDefaults(config *Config) {
	config.Server.Port = "8801"
	config.Server.Mode = "debug"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second

	config.Database.Driver = "mysql"
	config.Database.MaxIdleConns = 10
	config.Database.MaxOpenConns = 100
	config.Database.ConnMaxLifetime = time.Hour
	config.Database.LogLevel = "info"

	config.Redis.Addr = "localhost:6379"
	config.Redis.DB = 0
	config.Redis.PoolSize = 10
	config.Redis.DialTimeout = 5 * time.Second
	config.Redis.ReadTimeout = 3 * time.Second
	config.Redis.WriteTimeout = 3 * time.Second

	config.JWT.Expiry = 24 * time.Hour
	config.JWT.Issuer = "civic-go-admin"

	config.OpenAI.BaseURL = "https://api.openai.com"
	config.OpenAI.ModerationTimeout = 100 * time.Second
	config.OpenAI.ChatTimeout = 75 * time.Second
	config.OpenAI.VisionTimeout = 30 * time.Second

	config.Log.Level = "info"
	config.Log.Output = "stdout"
	config.Log.FilePath = "logs/app.log"
}

// loadFromFile 从配置文件加载
func loadFromFile(config *Config) error {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// loadFromEnv 从环境变量加载
func loadFromEnv(config *Config) error {
	// Server配置
	if port := os.Getenv("SERVER_PORT"); port != "" {
		config.Server.Port = port
	}
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		config.Server.Mode = mode
	}

	// Database配置
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	// Redis配置
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		config.Redis.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		config.Redis.Password = password
	}
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			config.Redis.DB = db
		}
	}

	// JWT配置
	if signingKey := os.Getenv("JWT_SIGNING_KEY"); signingKey != "" {
		config.JWT.SigningKey = signingKey
	}

	// OpenAI配置
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.OpenAI.BaseURL = baseURL
	}

	return nil
}

// validateConfig 验证配置
func validateConfig(config *Config) error {
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if config.JWT.SigningKey == "" {
		return fmt.Errorf("JWT signing key is required")
	}

	// 验证端口号
	if _, err := strconv.Atoi(strings.TrimPrefix(config.Server.Port, ":")); err != nil {
		return fmt.Errorf("invalid server port: %s", config.Server.Port)
	}

	// 验证模式
	validModes := []string{"debug", "release", "test"}
	modeValid := false
	for _, mode := range validModes {
		if config.Server.Mode == mode {
			modeValid = true
			break
		}
	}
	if !modeValid {
		return fmt.Errorf("invalid server mode: %s", config.Server.Mode)
	}

	return nil
}

// GetConfig 获取配置实例
func GetConfig() *Config {
	if AppConfig == nil {
		log.Fatal("config not initialized, call InitConfig() first")
	}
	return AppConfig
}

// IsProduction 判断是否为生产环境
func IsProduction() bool {
	return AppConfig != nil && AppConfig.Server.Mode == "release"
}
