package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Report   ReportConfig
	Export   ExportConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnLifetimeMin int
	MaxWriterTx     int
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

// ReportConfig carries the default report parameters and the tuning
// constants of the recommendation rules. The transfer divisor and the
// demand threshold are deliberately separate knobs.
type ReportConfig struct {
	WindowDays          int
	ExpansionWindowDays int
	ExpansionThreshold  int
	DemandThreshold     int
	TransferDivisor     int
	DiagnosticsDir      string
}

type ExportConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "jagi_mahalo")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
		viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
		viper.SetDefault("DB_CONN_LIFETIME_MINUTES", 5)
		viper.SetDefault("DB_MAX_WRITER_TX", 10)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_REPORT_TTL_SECONDS", 120)
		viper.SetDefault("REPORT_WINDOW_DAYS", 10)
		viper.SetDefault("REPORT_EXPANSION_WINDOW_DAYS", 60)
		viper.SetDefault("REPORT_EXPANSION_THRESHOLD", 3)
		viper.SetDefault("REPORT_DEMAND_THRESHOLD", 1)
		viper.SetDefault("REPORT_TRANSFER_DIVISOR", 2)
		viper.SetDefault("REPORT_DIAGNOSTICS_DIR", "./data/diagnostics")
		viper.SetDefault("EXPORT_ENABLED", false)
		viper.SetDefault("EXPORT_ENDPOINT", "")
		viper.SetDefault("EXPORT_ACCESS_KEY", "")
		viper.SetDefault("EXPORT_SECRET_KEY", "")
		viper.SetDefault("EXPORT_BUCKET", "restock-reports")
		viper.SetDefault("EXPORT_REGION", "us-east-1")
		viper.SetDefault("EXPORT_USE_SSL", true)

		viper.AutomaticEnv()

		ensureDir(viper.GetString("REPORT_DIAGNOSTICS_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:            viper.GetString("DB_HOST"),
				Port:            viper.GetString("DB_PORT"),
				User:            viper.GetString("DB_USER"),
				Password:        viper.GetString("DB_PASSWORD"),
				DBName:          viper.GetString("DB_NAME"),
				SSLMode:         viper.GetString("DB_SSLMODE"),
				MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
				MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
				ConnLifetimeMin: viper.GetInt("DB_CONN_LIFETIME_MINUTES"),
				MaxWriterTx:     viper.GetInt("DB_MAX_WRITER_TX"),
			},
			Cache: CacheConfig{
				Enabled:          viper.GetBool("CACHE_ENABLED"),
				RedisURL:         viper.GetString("REDIS_URL"),
				RedisHost:        viper.GetString("REDIS_HOST"),
				RedisPort:        viper.GetString("REDIS_PORT"),
				RedisPassword:    viper.GetString("REDIS_PASSWORD"),
				RedisDB:          viper.GetInt("REDIS_DB"),
				ReportTTLSeconds: viper.GetInt("CACHE_REPORT_TTL_SECONDS"),
			},
			Report: ReportConfig{
				WindowDays:          viper.GetInt("REPORT_WINDOW_DAYS"),
				ExpansionWindowDays: viper.GetInt("REPORT_EXPANSION_WINDOW_DAYS"),
				ExpansionThreshold:  viper.GetInt("REPORT_EXPANSION_THRESHOLD"),
				DemandThreshold:     viper.GetInt("REPORT_DEMAND_THRESHOLD"),
				TransferDivisor:     viper.GetInt("REPORT_TRANSFER_DIVISOR"),
				DiagnosticsDir:      viper.GetString("REPORT_DIAGNOSTICS_DIR"),
			},
			Export: ExportConfig{
				Enabled:   viper.GetBool("EXPORT_ENABLED"),
				Endpoint:  viper.GetString("EXPORT_ENDPOINT"),
				AccessKey: viper.GetString("EXPORT_ACCESS_KEY"),
				SecretKey: viper.GetString("EXPORT_SECRET_KEY"),
				Bucket:    viper.GetString("EXPORT_BUCKET"),
				Region:    viper.GetString("EXPORT_REGION"),
				UseSSL:    viper.GetBool("EXPORT_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
