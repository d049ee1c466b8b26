package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the shared structured logger used across the project.
	L     *zap.Logger
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
	once  sync.Once
)

func init() {
	Init()
}

// Init builds the global logger if it has not been constructed yet.
// It uses zap's production configuration; LOG_LEVEL picks the initial level.
func Init() {
	once.Do(func() {
		if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
			_ = SetLevel(v)
		}
		cfg := zap.NewProductionConfig()
		cfg.Level = level
		cfg.Sampling = nil
		logger, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		L = logger
	})
}

// SetLevel changes the level of L at runtime.
func SetLevel(name string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}
