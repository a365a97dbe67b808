package main

import (
	"github.com/joho/godotenv"
)

func main() {
	// Load .env when present; real environment variables still win.
	_ = godotenv.Load()

	setupLogger()
	Execute()
}
