package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config is read from the process environment, falling back to config.yaml.
type Config struct {
	Port     string `default:"5000" env:"PORT" usage:"HTTP listen port"`
	LogLevel string `default:"info" env:"LOG_LEVEL" usage:"zap log level"`

	MongoURI string `env:"MONGO_URI" usage:"full MongoDB URI, overrides DB_USER/DB_PASS/DB_HOST"`
	DBUser   string `env:"DB_USER"`
	DBPass   string `env:"DB_PASS"`
	DBHost   string `default:"cluster0.xu7lgvl.mongodb.net" env:"DB_HOST"`
	DBName   string `default:"k2kDB" env:"DB_NAME"`

	TokenSecret string        `env:"ACCESS_TOKEN_SECRET" usage:"HMAC secret for identity tokens"`
	TokenTTL    time.Duration `default:"1h" env:"TOKEN_TTL"`

	CORSOrigins []string `default:"http://localhost:5173,https://khamar-server-mb0e17cvf-shahadat-hossains-projects-d6251f0a.vercel.app" env:"CORS_ORIGINS"`

	RedisAddr     string        `env:"REDIS_ADDR" usage:"empty disables the cart cache"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CartCacheTTL  time.Duration `default:"15m" env:"CART_CACHE_TTL"`

	KafkaBrokers    []string `env:"KAFKA_BROKERS" usage:"empty disables order events"`
	KafkaOrderTopic string   `default:"order-events" env:"KAFKA_ORDER_TOPIC"`

	RequestTimeout  time.Duration `default:"30s" env:"REQUEST_TIMEOUT"`
	ShutdownTimeout time.Duration `default:"10s" env:"SHUTDOWN_TIMEOUT"`
}

// Load reads the configuration and validates required settings.
func Load() (*Config, error) {
	return load([]string{"config.yaml"})
}

func load(files []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:          true,
		AllowUnknownFields: true,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if c.MongoURI == "" && (c.DBUser == "" || c.DBPass == "") {
		return errors.New("database credentials are required: set MONGO_URI or DB_USER and DB_PASS")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// DatabaseURI returns MONGO_URI when set, otherwise the Atlas SRV URI built from credentials.
func (c *Config) DatabaseURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPass), c.DBHost)
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
