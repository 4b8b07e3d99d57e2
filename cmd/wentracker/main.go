package main

import "github.com/joho/godotenv"

func main() {
	// Load .env file; absence just means plain environment variables
	_ = godotenv.Load()
	Execute()
}
