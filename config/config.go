package config

import (
	"Marketplace/models"
	"fmt"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"os"
	"time"
)

const defaultConfigPath = "config/config.yaml"

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type DatabaseConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Database int    `yaml:"database"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

type JWTConfig struct {
	PublicKeyPath string `yaml:"publicKeyPath"`
}

type CartConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts"`
	CacheTTL     time.Duration `yaml:"cacheTTL"`
	LockItemRows bool          `yaml:"lockItemRows"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	JWT      JWTConfig      `yaml:"jwt"`
	Cart     CartConfig     `yaml:"cart"`
	Log      LogConfig      `yaml:"log"`
}

// Path 設定檔路徑，可用CONFIG_PATH覆寫
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func LoadConfig(filename string) (Config, error) {
	config := Config{
		Server:   ServerConfig{Addr: ":3000"},
		RabbitMQ: RabbitMQConfig{Exchange: "marketplace.events"},
		JWT:      JWTConfig{PublicKeyPath: "jwt/public_key.pem"},
		Cart:     CartConfig{MaxAttempts: 3, CacheTTL: 30 * time.Second},
		Log:      LogConfig{Level: "info"},
	}
	file, err := os.Open(filename)
	if err != nil {
		return config, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("decode %s: %w", filename, err)
	}

	return config, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Item{},
		&models.Cart{},
		&models.CartItem{},
	)
}

func SetupMySQLConnection(config Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.Database.Username,
		config.Database.Password,
		config.Database.Host,
		config.Database.Port,
		config.Database.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// SetupRedisConnection 未設定addr時回傳nil，購物車快取停用
func SetupRedisConnection(config Config) *redis.Client {
	if config.Redis.Addr == "" {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.Database,
	})
}
