package config

import (
	"os"

	"github.com/joho/godotenv"
)

var Envs struct {
	POSTGRES_URL    string
	NEXTAUTH_SECRET string
	ALLOWED_ORIGINS string
	GIN_MODE        string
	PORT            string
}

// Load reads a .env file if one exists, then snapshots the environment into
// Envs. Must run before anything reads Envs.
func Load() {
	godotenv.Load()

	Envs.POSTGRES_URL = os.Getenv("POSTGRES_URL")
	Envs.NEXTAUTH_SECRET = os.Getenv("NEXTAUTH_SECRET")
	Envs.ALLOWED_ORIGINS = os.Getenv("ALLOWED_ORIGINS")
	Envs.GIN_MODE = os.Getenv("GIN_MODE")
	Envs.PORT = os.Getenv("PORT")

	if Envs.PORT == "" {
		Envs.PORT = "3001"
	}
}
