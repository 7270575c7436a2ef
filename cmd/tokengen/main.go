// Command tokengen issues a bearer token for local testing of the
// generation endpoints. The signing secret is read from
// FLASHDECK_AUTH_JWT_SECRET, optionally via a .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/flashdeck-api/internal/config"
	"github.com/phrazzld/flashdeck-api/internal/service/auth"
)

func main() {
	userFlag := flag.String("user", "", "user ID to issue the token for (random when empty)")
	lifetime := flag.Int("lifetime", 60, "token lifetime in minutes")
	flag.Parse()

	_ = godotenv.Load()

	userID := uuid.New()
	if *userFlag != "" {
		parsed, err := uuid.Parse(*userFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid user ID %q: %v\n", *userFlag, err)
			os.Exit(2)
		}
		userID = parsed
	}

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            os.Getenv(config.EnvPrefix + "_AUTH_JWT_SECRET"),
		TokenLifetimeMinutes: *lifetime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create token service: %v\n", err)
		os.Exit(1)
	}

	token, err := svc.GenerateToken(context.Background(), userID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("user:  %s\ntoken: %s\n", userID, token)
}
