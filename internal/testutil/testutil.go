package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/finn/cloudcost-dashboard/internal/api"
	"github.com/finn/cloudcost-dashboard/internal/config"
	"github.com/finn/cloudcost-dashboard/internal/directory"
	"github.com/finn/cloudcost-dashboard/internal/service"
	"github.com/finn/cloudcost-dashboard/internal/store"
)

// TestConfig returns a configuration suitable for testing: memory-backed
// store and no simulated provider latency.
func TestConfig() *config.Config {
	return &config.Config{
		Port:          "0",
		Environment:   "test",
		SessionTTL:    time.Hour,
		ProviderDelay: 0,
	}
}

// TestServer holds all components for integration testing.
type TestServer struct {
	Server    *httptest.Server
	Store     *store.Memory
	Directory *directory.Directory
	Services  *service.Services
	Config    *config.Config
}

// NewTestServer wires a complete in-process server over the seeded demo
// roster and a fresh memory store.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	cfg := TestConfig()

	dir, err := directory.Seed()
	if err != nil {
		t.Fatalf("failed to seed directory: %v", err)
	}

	mem := store.NewMemory()

	services, err := service.NewServices(dir, mem, cfg)
	if err != nil {
		t.Fatalf("failed to build services: %v", err)
	}

	server := httptest.NewServer(api.NewRouter(services, dir))
	t.Cleanup(server.Close)

	return &TestServer{
		Server:    server,
		Store:     mem,
		Directory: dir,
		Services:  services,
		Config:    cfg,
	}
}

// APIURL returns the full URL for an API v1 path.
func (ts *TestServer) APIURL(path string) string {
	return ts.Server.URL + "/api/v1" + path
}
