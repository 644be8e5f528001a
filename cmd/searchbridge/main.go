package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

// @title searchbridge API
// @version 1.0
// @BasePath /
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
