package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName      string `json:"app_name"`
	ListenIP     string `json:"listen_ip"`
	ListenPort   int    `json:"listen_port"`
	DatabasePath string `json:"database_path"`
	SessionKey   string `json:"session_key"`
	LogLevel     string `json:"log_level"`
}

var AppConfig Config

func LoadConfig(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		return err
	}

	// A .env file is optional; environment always wins over the JSON file.
	_ = godotenv.Load()

	if envKey := os.Getenv("SCHED_SESSION_KEY"); envKey != "" {
		AppConfig.SessionKey = envKey
	}
	if envPath := os.Getenv("SCHED_DATABASE_PATH"); envPath != "" {
		AppConfig.DatabasePath = envPath
	}

	if AppConfig.DatabasePath == "" {
		AppConfig.DatabasePath = "./sched.db"
	}
	if AppConfig.LogLevel == "" {
		AppConfig.LogLevel = "info"
	}

	// If no key is provided or it's the placeholder, generate a secure random one
	if AppConfig.SessionKey == "" || AppConfig.SessionKey == "CHANGE_ME_IN_PRODUCTION" {
		log.Println("WARNING: No session key configured. Generating a random key. Sessions will be invalidated on restart.")
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			return err
		}
		AppConfig.SessionKey = hex.EncodeToString(randomKey)
	}

	return nil
}
