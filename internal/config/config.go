package config

import (
	"net"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Server struct {
	Host        string `envconfig:"WEATHER_SERVER_HOST" default:"0.0.0.0"`
	HTTPPort    string `envconfig:"WEATHER_SERVER_HTTP_PORT" default:"8080"`
	GrpcPort    string `envconfig:"WEATHER_SERVER_GRPC_PORT" default:"50051"`
	ReadTimeout int    `envconfig:"WEATHER_SERVER_TIMEOUT" default:"10"`
}

type Provider struct {
	APIKey     string `envconfig:"OPEN_WEATHER_MAP_API_KEY" required:"true"`
	BaseURL    string `envconfig:"OPEN_WEATHER_MAP_URL" default:"https://api.openweathermap.org/data/2.5"`
	ProURL     string `envconfig:"OPEN_WEATHER_MAP_PRO_URL" default:"https://pro.openweathermap.org/data/2.5"`
	Timeout    int    `envconfig:"PROVIDER_TIMEOUT" default:"10"`
	MaxRetries uint64 `envconfig:"PROVIDER_MAX_RETRIES" default:"2"`
	RetryBase  int    `envconfig:"PROVIDER_RETRY_BASE_MS" default:"200"`
}

type Breaker struct {
	TimeInterval int    `envconfig:"BREAKER_INTERVAL" default:"30"`
	TimeTimeOut  int    `envconfig:"BREAKER_TIMEOUT" default:"10"`
	RepeatNumber uint32 `envconfig:"BREAKER_REPEAT_NUM" default:"5"`
}

type Storage struct {
	DataDir        string `envconfig:"DATA_DIR" default:"."`
	FavoritesFile  string `envconfig:"FAVORITES_FILE" default:"favorites.txt"`
	LastSearchFile string `envconfig:"LAST_SEARCH_FILE" default:"last_search.txt"`
	HistoryFile    string `envconfig:"SEARCH_HISTORY_FILE" default:"search_history.txt"`
}

type Redis struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	LiveTime int    `envconfig:"REDIS_LIVE_TIME" default:"30"` // minutes
}

type Refresher struct {
	Schedule string `envconfig:"REFRESH_SCHEDULE" default:"0 */15 * * * *"`
}

type Tracing struct {
	ZipkinEndpoint string `envconfig:"ZIPKIN_ENDPOINT"`
	ServiceName    string `envconfig:"TRACING_SERVICE_NAME" default:"weather-app"`
}

type Config struct {
	Server    Server
	Provider  Provider
	Breaker   Breaker
	Storage   Storage
	Redis     Redis
	Refresher Refresher
	Tracing   Tracing

	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogsPath     string `envconfig:"LOGS_PATH" default:"./log/weather-app.log"`
	HTTPLogsPath string `envconfig:"HTTP_LOGS_PATH" default:"./log/provider-http.log"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.HTTPPort)
}

func (c *Config) GrpcAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.GrpcPort)
}

func (c *Config) RedisAddress() string {
	return net.JoinHostPort(c.Redis.Host, c.Redis.Port)
}

func (p Provider) RequestTimeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

func (p Provider) RetryBaseDelay() time.Duration {
	return time.Duration(p.RetryBase) * time.Millisecond
}
