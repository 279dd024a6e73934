package config

import (
	"log"
	"os"
	"time"

	"github.com/emregurs3s/karakus-tech-website/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string  `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP    `yaml:"http"`
	Postgres PG      `yaml:"postgres"`
	Redis    Redis   `yaml:"redis"`
	Kafka    Kafka   `yaml:"kafka"`
	Cart     Cart    `yaml:"cart"`
	Shopier  Shopier `yaml:"shopier"`
	Limiter  Limiter `yaml:"limiter"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
}

// Cart holds the storefront pricing knobs. Amounts are in kuruş.
type Cart struct {
	FreeShippingThreshold int64 `yaml:"free_shipping_threshold" env:"FREE_SHIPPING_THRESHOLD" env-default:"50000"`
	ShippingFee           int64 `yaml:"shipping_fee" env:"SHIPPING_FEE" env-default:"2999"`
}

type Shopier struct {
	APIKey       string `yaml:"api_key" env:"SHOPIER_API_KEY"`
	APISecret    string `yaml:"api_secret" env:"SHOPIER_API_SECRET"`
	WebsiteIndex string `yaml:"website_index" env:"SHOPIER_WEBSITE_INDEX" env-default:"1"`
	PaymentURL   string `yaml:"payment_url" env:"SHOPIER_PAYMENT_URL" env-default:"https://www.shopier.com/ShowProduct/api_pay4.php"`
}

type Limiter struct {
	Max        int           `yaml:"max" env-default:"20"`
	Expiration time.Duration `yaml:"expiration" env-default:"5s"`
}

func MustLoad() *Config {
	configPath := utils.EnvOrDefault("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
