package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/pipelinehq/dbtcloud-go/cmd/cli/commands"
	"github.com/pipelinehq/dbtcloud-go/internal/logger"
)

func main() {
	// Load .env if present; real env vars take precedence
	_ = godotenv.Load()

	logger.Initialize()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
