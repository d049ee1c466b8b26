package store

import (
	"context"
	"os"
	"strings"
	"time"
)

// EnvOrMemory returns a Postgres store when DATABASE_URL is set and an
// in-memory store otherwise. The returned func closes the store.
func EnvOrMemory() (Store, func(context.Context) error, error) {
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		m := NewMemory()
		return m, m.Close, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := NewPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
