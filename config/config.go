package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string
	AppEnv  string

	// DBDriver selects the GORM driver: "sqlite" (default, embedded file)
	// or "postgres".
	DBDriver   string
	DBPath     string // sqlite database file
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	// Face pipeline. ScaleFactor and MinNeighbors are passed straight into
	// the cascade matcher; Threshold is the LBPH distance cutoff (lower
	// distance = closer match).
	CascadePath  string
	ModelPath    string
	FaceDataDir  string
	ScaleFactor  float64
	MinNeighbors int
	MinFaceSize  int
	Threshold    float64

	NotifyTimeout time.Duration
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		AppPort: get("APP_PORT", "8080"),
		AppEnv:  get("APP_ENV", "dev"),

		DBDriver:   get("DB_DRIVER", "sqlite"),
		DBPath:     get("DB_PATH", "attendance_system.db"),
		DBHost:     get("DB_HOST", "localhost"),
		DBPort:     get("DB_PORT", "5432"),
		DBUser:     get("DB_USER", "postgres"),
		DBPassword: get("DB_PASSWORD", ""),
		DBName:     get("DB_NAME", "faceattend"),
		DBSSLMode:  get("DB_SSLMODE", "disable"),

		JWTSecret: get("JWT_SECRET", "dev-secret"),

		CascadePath:  get("FACE_CASCADE_PATH", "haarcascade_frontalface_default.xml"),
		ModelPath:    get("FACE_MODEL_PATH", "data/lbph_model.yml"),
		FaceDataDir:  get("FACE_DATA_DIR", "data/faces"),
		ScaleFactor:  getFloat("FACE_SCALE_FACTOR", 1.1),
		MinNeighbors: getInt("FACE_MIN_NEIGHBORS", 4),
		MinFaceSize:  getInt("FACE_MIN_SIZE", 60),
		Threshold:    getFloat("RECOGNITION_THRESHOLD", 70.0),

		NotifyTimeout: time.Duration(getInt("NOTIFY_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}
