// One-off: go run scripts/seed.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mahmoudsallem/Backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.PG.DSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	samples := []struct {
		title       string
		description string
		completed   bool
	}{
		{"Buy groceries", "Milk, eggs, bread", false},
		{"Write weekly report", "Summarize sprint progress for Monday", false},
		{"Renew gym membership", "", true},
	}

	for _, s := range samples {
		var desc *string
		if s.description != "" {
			desc = &s.description
		}
		var id int64
		err := conn.QueryRow(ctx,
			`INSERT INTO tasks (title, description, completed) VALUES ($1, $2, $3) RETURNING id`,
			s.title, desc, s.completed,
		).Scan(&id)
		if err != nil {
			fmt.Fprintln(os.Stderr, "insert:", err)
			os.Exit(1)
		}
		fmt.Printf("seeded task %d: %s\n", id, s.title)
	}
}
