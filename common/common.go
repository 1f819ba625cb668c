package common

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	ProjectID string

	IsLocalhost bool

	Production bool

	// Env is the environment label attached to every log entry.
	Env string
)

func initEnvVariables() {
	ProjectID = GetEnv("GOOGLE_CLOUD_PROJECT", "")
	IsLocalhost = gin.Mode() != gin.ReleaseMode
	Production = !IsLocalhost

	if Production {
		Env = "production"
	} else {
		Env = "development"
	}
}

func init() {
	initEnvVariables()
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

// GetEnvInt returns the integer value of key, or fallback when it is unset or not a number.
func GetEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %d", value, key, fallback)
		return fallback
	}

	return i
}

// GetEnvFloat returns the float value of key, or fallback when it is unset or not a number.
func GetEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %v", value, key, fallback)
		return fallback
	}

	return f
}

// GetEnvBool returns the boolean value of key, or fallback when it is unset or not a boolean.
func GetEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %t", value, key, fallback)
		return fallback
	}

	return b
}

// GetEnvDuration returns the duration value of key, or fallback when it is unset or malformed.
func GetEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid value %q for %s, using default %s", value, key, fallback)
		return fallback
	}

	return d
}
