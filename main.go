package main

import (
	"github.com/joho/godotenv"

	"vpn-coordination-portal/cmd"
)

func main() {
	// Optional .env for local development; real deployments configure via env.
	godotenv.Load()

	cmd.Execute()
}
