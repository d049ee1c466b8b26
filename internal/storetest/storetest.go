// Package storetest hands each test its own isolated course store.
package storetest

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vaheed/coursenova/internal/store"
)

// EnvDSN names the variable that switches tests onto PostgreSQL.
const EnvDSN = "COURSES_TEST_DATABASE_URL"

var (
	mu    sync.Mutex
	pools = map[string]*store.Postgres{}
)

// New returns a store private to t. With EnvDSN set every statement runs in a
// transaction that is rolled back when t finishes; otherwise the store is a
// fresh in-memory one.
func New(t testing.TB) store.Store {
	t.Helper()
	dsn := strings.TrimSpace(os.Getenv(EnvDSN))
	if dsn == "" {
		return store.NewMemory()
	}
	p := pool(t, dsn)
	ctx := context.Background()
	txStore, tx, err := p.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin test transaction: %v", err)
	}
	t.Cleanup(func() { _ = tx.Rollback() })
	return txStore
}

// pool opens one connection pool per DSN and keeps it for the test binary.
func pool(t testing.TB, dsn string) *store.Postgres {
	t.Helper()
	mu.Lock()
	defer mu.Unlock()
	if p, ok := pools[dsn]; ok {
		return p
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	p, err := store.NewPostgres(ctx, dsn)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	pools[dsn] = p
	return p
}
