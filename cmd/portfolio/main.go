// Command portfolio runs the portfolio web server.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/praveen44/portfolio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
