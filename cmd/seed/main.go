package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-identity/config"
	"github.com/oksasatya/go-ddd-identity/internal/domain/entity"
	pginfra "github.com/oksasatya/go-ddd-identity/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-identity/pkg/helpers"
)

// seed inserts a demo guest user. Usage: seed [email] [name]
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	email, name := "demo@example.com", "demoUser"
	if len(os.Args) > 1 {
		email = os.Args[1]
	}
	if len(os.Args) > 2 {
		name = os.Args[2]
	}

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	u, err := entity.NewUser(email, name, entity.Guest.Code(), nil)
	if err != nil {
		logger.Fatalf("invalid seed user: %v", err)
	}
	if err := pginfra.NewUserRepository(pool).Create(ctx, u); err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s type=%s\n", u.ID(), u.Email(), u.Name(), u.UserType())
}
