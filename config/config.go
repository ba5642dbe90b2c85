package config

import "github.com/joho/godotenv"

// LoadEnv pulls a local .env into the process environment if one exists.
// Missing files are fine; real deployments set env directly.
func LoadEnv() {
	_ = godotenv.Load()
}
