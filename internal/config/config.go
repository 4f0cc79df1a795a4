package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// AppConfig holds the run-scoped settings read from the environment.
// The core never reads it directly: values are parsed and threaded into the
// engine explicitly, so several simulations can run with different settings
// in one process.
type AppConfig struct {
	Method           string
	TaxRate          string
	BaseCurrency     string
	TransactionsPath string
	LogLevel         string
	DatabaseConnStr  string
}

// Load reads the configuration from a .env file (if present) and the OS
// environment, falling back to defaults
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, relying on OS environment variables and defaults")
	}

	return &AppConfig{
		Method:           getEnv("METHOD", "ACB"),
		TaxRate:          getEnv("TAX_RATE", "0.275"),
		BaseCurrency:     getEnv("BASE_CURRENCY", "EUR"),
		TransactionsPath: getEnv("TRANSACTIONS_CSV", "data/transactions.csv"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseConnStr:  getEnv("DB_CONN_STR", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
