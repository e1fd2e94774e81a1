// Command token prints a bearer token for the write endpoints, signed with JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	jwtmw "stock_valuation/internal/platform/jwt"
)

func main() {
	subject := flag.String("sub", "operator", "subject claim of the token")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := jwtmw.LoadConfig()
	if err != nil {
		slog.Error("invalid JWT configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.Enabled() {
		slog.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := jwtmw.NewGenerator(cfg.Secret, cfg.TTL).GenerateToken(*subject)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
