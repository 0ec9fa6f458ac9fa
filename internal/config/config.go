package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Cache      CacheConfig
	Log        LogConfig
	Sources    SourcesConfig
	Index      IndexConfig
	Pedestrian PedestrianConfig
	OSRM       OSRMConfig
	Worker     WorkerConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	RouteCacheTTL time.Duration
}

// LogConfig - уровень и формат логов. Пустой Format выбирается по уровню.
type LogConfig struct {
	Level  string
	Format string
}

// SourcesConfig - источники транспортных точек
type SourcesConfig struct {
	File               string
	RequestTimeout     time.Duration
	RailSnapshotPath   string
	RailSnapshotStale  time.Duration
	RailRequestTimeout time.Duration
}

// IndexConfig - пространственный индекс
type IndexConfig struct {
	CellSizeDeg float64
	WarmOnStart bool
}

// PedestrianConfig - пешеходный граф
type PedestrianConfig struct {
	NetworkFile       string
	MergeToleranceDeg float64
	SnapDistanceM     float64
}

// OSRMConfig - внешний сервис маршрутизации
type OSRMConfig struct {
	BaseURL        string
	RequestTimeout int
	TableProfile   string
	RouteProfile   string
	WalkProfile    string
	TableCacheSize int
	TableCacheTTL  time.Duration
}

type WorkerConfig struct {
	Enabled               bool
	SnapshotCheckInterval time.Duration
	PointsMaxAge          time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "")

	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ROUTE_CACHE_TTL", 3600)

	v.SetDefault("SOURCES_FILE", "")
	v.SetDefault("SOURCES_REQUEST_TIMEOUT", 10)
	v.SetDefault("RAIL_SNAPSHOT_PATH", "data/mtr_stations.json")
	v.SetDefault("RAIL_SNAPSHOT_STALE_DAYS", 14)
	v.SetDefault("RAIL_REQUEST_TIMEOUT", 15)

	v.SetDefault("INDEX_CELL_SIZE_DEG", 0.005)
	v.SetDefault("INDEX_WARM_ON_START", true)

	v.SetDefault("PEDESTRIAN_NETWORK_FILE", "data/hk_pedestrian_network.geojson")
	v.SetDefault("PEDESTRIAN_MERGE_TOLERANCE_DEG", 0.0001)
	v.SetDefault("PEDESTRIAN_SNAP_DISTANCE_M", 500)

	v.SetDefault("OSRM_BASE_URL", "http://router.project-osrm.org")
	v.SetDefault("OSRM_REQUEST_TIMEOUT", 10)
	v.SetDefault("OSRM_TABLE_PROFILE", "driving")
	v.SetDefault("OSRM_ROUTE_PROFILE", "driving")
	v.SetDefault("OSRM_WALK_PROFILE", "foot")
	v.SetDefault("OSRM_TABLE_CACHE_SIZE", 256)
	v.SetDefault("OSRM_TABLE_CACHE_TTL", 600)

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_SNAPSHOT_CHECK_INTERVAL", 3600)
	v.SetDefault("WORKER_POINTS_MAX_AGE", 21600)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile читает конфигурацию из указанного env файла и окружения.
// Отсутствие файла не ошибка: используются окружение и значения по умолчанию.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("API_HOST"),
			Port: v.GetInt("API_PORT"),
			Env:  v.GetString("API_ENV"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			RouteCacheTTL: time.Duration(v.GetInt("ROUTE_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Sources: SourcesConfig{
			File:               strings.TrimSpace(v.GetString("SOURCES_FILE")),
			RequestTimeout:     time.Duration(v.GetInt("SOURCES_REQUEST_TIMEOUT")) * time.Second,
			RailSnapshotPath:   v.GetString("RAIL_SNAPSHOT_PATH"),
			RailSnapshotStale:  time.Duration(v.GetInt("RAIL_SNAPSHOT_STALE_DAYS")) * 24 * time.Hour,
			RailRequestTimeout: time.Duration(v.GetInt("RAIL_REQUEST_TIMEOUT")) * time.Second,
		},
		Index: IndexConfig{
			CellSizeDeg: v.GetFloat64("INDEX_CELL_SIZE_DEG"),
			WarmOnStart: v.GetBool("INDEX_WARM_ON_START"),
		},
		Pedestrian: PedestrianConfig{
			NetworkFile:       v.GetString("PEDESTRIAN_NETWORK_FILE"),
			MergeToleranceDeg: v.GetFloat64("PEDESTRIAN_MERGE_TOLERANCE_DEG"),
			SnapDistanceM:     v.GetFloat64("PEDESTRIAN_SNAP_DISTANCE_M"),
		},
		OSRM: OSRMConfig{
			BaseURL:        strings.TrimRight(v.GetString("OSRM_BASE_URL"), "/"),
			RequestTimeout: v.GetInt("OSRM_REQUEST_TIMEOUT"),
			TableProfile:   v.GetString("OSRM_TABLE_PROFILE"),
			RouteProfile:   v.GetString("OSRM_ROUTE_PROFILE"),
			WalkProfile:    v.GetString("OSRM_WALK_PROFILE"),
			TableCacheSize: v.GetInt("OSRM_TABLE_CACHE_SIZE"),
			TableCacheTTL:  time.Duration(v.GetInt("OSRM_TABLE_CACHE_TTL")) * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:               v.GetBool("WORKER_ENABLED"),
			SnapshotCheckInterval: time.Duration(v.GetInt("WORKER_SNAPSHOT_CHECK_INTERVAL")) * time.Second,
			PointsMaxAge:          time.Duration(v.GetInt("WORKER_POINTS_MAX_AGE")) * time.Second,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Index.CellSizeDeg <= 0 {
		return fmt.Errorf("INDEX_CELL_SIZE_DEG must be positive, got %v", c.Index.CellSizeDeg)
	}
	if c.Pedestrian.MergeToleranceDeg <= 0 {
		return fmt.Errorf("PEDESTRIAN_MERGE_TOLERANCE_DEG must be positive, got %v", c.Pedestrian.MergeToleranceDeg)
	}
	if c.Sources.RequestTimeout <= 0 {
		return fmt.Errorf("SOURCES_REQUEST_TIMEOUT must be positive")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN - строка подключения в формате key=value
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
