package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// envFileVar names an alternative dotenv file to load instead of .env.
const envFileVar = "DRILLING_ENV_FILE"

// loadDotEnv loads environment variables from .env (or $DRILLING_ENV_FILE)
// when present. Existing process environment variables are not overridden.
func loadDotEnv() error {
	file := ".env"
	if v := os.Getenv(envFileVar); v != "" {
		file = v
	}

	err := godotenv.Load(file)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", file, err)
}
