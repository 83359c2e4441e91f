package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	Env          string
	DBType       string // sqlite or postgres
	DBPath       string // sqlite database file
	DBUrl        string // postgres dsn
	RedisAddr    string // empty disables redis, in-memory cache is used
	KafkaBrokers string // empty disables the change event stream
	HTTPPort     string
	PublishCodec string // compression codec for published snapshots
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:          getenv("ENV", "dev"),
		DBType:       getenv("DB_TYPE", "sqlite"),
		DBPath:       getenv("DB_PATH", ".db/book.db"),
		DBUrl:        os.Getenv("DB_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		HTTPPort:     getenv("HTTP_PORT", "4020"),
		PublishCodec: getenv("PUBLISH_CODEC", "gzip"),
	}
}

// GetDb opens the configured database connection.
func GetDb(cnf *Config) *gorm.DB {
	var db *gorm.DB
	var err error

	switch cnf.DBType {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cnf.DBUrl), &gorm.Config{})
	default:
		if err = os.MkdirAll(filepath.Dir(cnf.DBPath), os.ModePerm); err != nil {
			logrus.Fatalf("error creating database directory: %v", err)
		}
		db, err = gorm.Open(sqlite.Open(cnf.DBPath), &gorm.Config{})
	}
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	return db
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
