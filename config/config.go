package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"ledgerwallet_go/blockchain"
	"ledgerwallet_go/utils"
)

// AppConfig holds all startup configurations
type AppConfig struct {
	Port            int
	Verbose         bool
	DataDir         string
	InMemory        bool    // Keep balances in memory instead of LevelDB
	FaucetAmount    float64 // Default balance credited to wallets created through the API
	MempoolCapacity int
	EventBuffer     int
}

// LoadEnvFiles loads .env.test if present, otherwise .env.
func LoadEnvFiles() {
	for _, name := range []string{".env.test", ".env"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			utils.LogWarn("Error loading %s file: %v", name, err)
			return
		}
		utils.LogInfo("Successfully loaded %s file", name)
		return
	}
	utils.LogDebug("No .env or .env.test file found, using environment variables or defaults.")
}

func getEnvInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	valInt, err := strconv.Atoi(valStr)
	if err != nil {
		utils.LogWarn("Invalid integer value for %s: %s. Using default %d.", key, valStr, defaultValue)
		return defaultValue
	}
	return valInt
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil {
		utils.LogWarn("Invalid number for %s: %s. Using default %v.", key, valStr, defaultValue)
		return defaultValue
	}
	return val
}

func getEnvBool(key string, defaultValue bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		utils.LogWarn("Invalid boolean for %s: %s. Using default %t.", key, valStr, defaultValue)
		return defaultValue
	}
	return val
}

// Load reads configuration. Environment variables set the defaults and
// command line flags in args override them.
func Load(args []string) (*AppConfig, error) {
	config := &AppConfig{}
	fs := flag.NewFlagSet("ledgerwallet", flag.ContinueOnError)

	fs.IntVar(&config.Port, "port", getEnvInt("API_PORT", 3002), "Port for the HTTP API")
	fs.BoolVar(&config.Verbose, "verbose", getEnvBool("VERBOSE", true), "Enable detailed logging")
	fs.StringVar(&config.DataDir, "datadir", os.Getenv("DATA_DIR"), "Directory for ledger data")
	fs.BoolVar(&config.InMemory, "inmemory", getEnvBool("IN_MEMORY", false), "Keep balances in memory only")
	fs.Float64Var(&config.FaucetAmount, "faucet", getEnvFloat("FAUCET_AMOUNT", 0), "Balance credited to new API wallets")
	fs.IntVar(&config.MempoolCapacity, "mempool", getEnvInt("MEMPOOL_CAPACITY", blockchain.DefaultMempoolCapacity), "Maximum pending transactions")
	fs.IntVar(&config.EventBuffer, "eventbuffer", getEnvInt("EVENT_BUFFER", 64), "Per-subscriber event buffer")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if config.DataDir == "" {
		config.DataDir = "data"
		utils.LogInfo("Data directory not specified, using default: %s", config.DataDir)
	}
	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}
	if config.FaucetAmount < 0 {
		return nil, fmt.Errorf("invalid faucet amount %v: must not be negative", config.FaucetAmount)
	}
	return config, nil
}
