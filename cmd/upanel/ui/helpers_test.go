package ui

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"upanel/internal/api"
	"upanel/internal/config"
	"upanel/internal/session"
	"upanel/internal/storage"
)

// testDeps builds a dependency bundle backed by a throwaway state dir. The
// API client points at a closed port; tests never execute network commands.
func testDeps(t *testing.T) *Deps {
	t.Helper()

	cfg := config.Default()
	logger := zap.NewNop()

	kv, err := storage.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}
	t.Cleanup(func() { kv.Close() })

	client := api.NewClient("http://127.0.0.1:1", cfg.PageSize, cfg.RequestTimeout, logger)
	viacep := api.NewViaCEP("http://127.0.0.1:1", cfg.RequestTimeout, logger)

	return &Deps{
		Config:  cfg,
		API:     client,
		ViaCEP:  viacep,
		Session: session.New(client, kv, logger),
		Logger:  logger,
	}
}
