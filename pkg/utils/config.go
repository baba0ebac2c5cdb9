package utils

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Email       EmailConfig
	OTP         OTPConfig
	Delivery    DeliveryConfig
	Recommender RecommenderConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	BaseURL       string // used to build verification links
	DefaultRegion string // fallback region for phone numbers without a prefix
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Group   string
	Workers int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type DeliveryConfig struct {
	// Timezone is the fixed reference zone delivery times are entered in.
	Timezone       string
	MinLeadMinutes int
	PollSeconds    int
}

type RecommenderConfig struct {
	Neighbors int
	TopN      int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("PHONE_DEFAULT_REGION", "IN")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "shop.notifications")
	viper.SetDefault("KAFKA_GROUP", "shopline-notifier")
	viper.SetDefault("KAFKA_WORKERS", 4)
	viper.SetDefault("OTP_EXPIRY_MINUTES", 10)
	viper.SetDefault("OTP_LENGTH", 6)
	viper.SetDefault("DELIVERY_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("DELIVERY_MIN_LEAD_MINUTES", 1)
	viper.SetDefault("DELIVERY_POLL_SECONDS", 30)
	viper.SetDefault("RECOMMENDER_NEIGHBORS", 20)
	viper.SetDefault("RECOMMENDER_TOP_N", 4)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          viper.GetString("APP_NAME"),
			Port:          viper.GetString("PORT"),
			Debug:         viper.GetBool("DEBUG"),
			LogPath:       viper.GetString("LOG_PATH"),
			BaseURL:       viper.GetString("BASE_URL"),
			DefaultRegion: viper.GetString("PHONE_DEFAULT_REGION"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(viper.GetString("KAFKA_BROKERS"), ","),
			Topic:   viper.GetString("KAFKA_TOPIC"),
			Group:   viper.GetString("KAFKA_GROUP"),
			Workers: viper.GetInt("KAFKA_WORKERS"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: viper.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        viper.GetInt("OTP_LENGTH"),
		},
		Delivery: DeliveryConfig{
			Timezone:       viper.GetString("DELIVERY_TIMEZONE"),
			MinLeadMinutes: viper.GetInt("DELIVERY_MIN_LEAD_MINUTES"),
			PollSeconds:    viper.GetInt("DELIVERY_POLL_SECONDS"),
		},
		Recommender: RecommenderConfig{
			Neighbors: viper.GetInt("RECOMMENDER_NEIGHBORS"),
			TopN:      viper.GetInt("RECOMMENDER_TOP_N"),
		},
	}

	return config, nil
}
