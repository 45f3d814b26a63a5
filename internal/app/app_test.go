package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abrezinsky/liftmeet/internal/auth"
	"github.com/abrezinsky/liftmeet/internal/config"
	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(config.New(), "")
	require.NoError(t, err)
	cfg.Database.Path = ":memory:"
	return cfg
}

func createTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	log := logger.NewWithOptions(io.Discard, slog.LevelDebug, logger.FormatText)
	app, err := New(log, cfg, auth.New("test-password"))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNew_InitializesApp(t *testing.T) {
	app := createTestApp(t, testConfig(t))

	assert.NotNil(t, app.handlers)
	assert.NotNil(t, app.repo)
	svc := app.Services()
	assert.NotNil(t, svc.Contests)
	assert.NotNil(t, svc.Results)
	assert.NotNil(t, svc.Plates)
	assert.NotNil(t, app.handlers.Hub)
}

func TestNew_FailsWithBadDBPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Path = "/nonexistent/path/db.sqlite"

	_, err := New(logger.New(), cfg, auth.New("test-password"))
	assert.Error(t, err)
}

func TestNew_FailsWithBadCoefficientFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reshel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("male: [[60, 1.2, 3]]\n"), 0o644))

	cfg := testConfig(t)
	cfg.Coefficients.ReshelFile = path

	_, err := New(logger.New(), cfg, auth.New("test-password"))
	assert.ErrorContains(t, err, "coefficient tables")
}

func TestApp_UsesConfiguredEquipment(t *testing.T) {
	cfg := testConfig(t)
	cfg.Equipment.BarWeightMaleKg = 25
	cfg.Equipment.ClampWeightKg = 0
	app := createTestApp(t, cfg)

	plan, err := app.Services().Plates.PlanForTarget(context.Background(), services.PlanRequest{TargetKg: 125, Gender: "Male"})
	require.NoError(t, err)
	assert.Equal(t, 25.0, plan.BarWeightKg)
	assert.Equal(t, 0.0, plan.ClampWeightTotalKg)
	assert.True(t, plan.Exact)
}

func TestApp_Router_ServesRequests(t *testing.T) {
	app := createTestApp(t, testConfig(t))

	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	app.Router().ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/contests", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetDefaultBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{"sets when empty", "", "http://192.168.1.100:8081"},
		{"replaces localhost", "http://localhost:8081", "http://192.168.1.100:8081"},
		{"keeps a real address", "http://192.168.1.50:8081", "http://192.168.1.50:8081"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createTestApp(t, testConfig(t))
			ctx := context.Background()
			if tt.existing != "" {
				require.NoError(t, app.repo.SetSetting(ctx, "base_url", tt.existing))
			}

			app.setDefaultBaseURL("http://192.168.1.100:8081")

			val, err := app.repo.GetSetting(ctx, "base_url")
			require.NoError(t, err)
			assert.Equal(t, tt.want, val)
		})
	}
}

func TestSetDefaultBaseURL_HandlesRepoError(t *testing.T) {
	app := createTestApp(t, testConfig(t))
	app.repo.DB().Close()

	assert.NotPanics(t, func() { app.setDefaultBaseURL("http://192.168.1.100:8081") })
}

func TestApp_Run_ConfiguredBaseURLWins(t *testing.T) {
	cfg := testConfig(t)
	cfg.PublicBaseURL = "http://meet.example:8081"
	app := createTestApp(t, cfg)
	require.NoError(t, app.repo.SetSetting(context.Background(), "base_url", "http://192.168.1.50:8081"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, "127.0.0.1:0") }()

	require.Eventually(t, func() bool {
		val, _ := app.repo.GetSetting(context.Background(), "base_url")
		return val == "http://meet.example:8081"
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestApp_Run_FailsOnBusyPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	app := createTestApp(t, testConfig(t))
	err = app.Run(context.Background(), ln.Addr().String())
	assert.Error(t, err)
}

// mockInterface implements networkInterface for testing
type mockInterface struct {
	flags net.Flags
	addrs []net.Addr
	err   error
}

func (m mockInterface) Flags() net.Flags { return m.flags }
func (m mockInterface) Addrs() ([]net.Addr, error) { return m.addrs, m.err }

// mockNetworkProvider implements networkProvider for testing
type mockNetworkProvider struct {
	interfaces []networkInterface
	err        error
}

func (m mockNetworkProvider) Interfaces() ([]networkInterface, error) {
	return m.interfaces, m.err
}

func ipNet(s string) *net.IPNet {
	return &net.IPNet{IP: net.ParseIP(s), Mask: net.CIDRMask(24, 32)}
}

func TestGetPreferredIP(t *testing.T) {
	tests := []struct {
		name     string
		provider mockNetworkProvider
		want     string
	}{
		{"provider error", mockNetworkProvider{err: net.ErrClosed}, "localhost"},
		{"addrs error", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{flags: net.FlagUp, err: net.ErrClosed},
		}}, "localhost"},
		{"interface down", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{addrs: []net.Addr{ipNet("192.168.1.9")}},
		}}, "localhost"},
		{"loopback interface", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{flags: net.FlagUp | net.FlagLoopback, addrs: []net.Addr{ipNet("192.168.1.9")}},
		}}, "localhost"},
		{"ip addr", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{flags: net.FlagUp, addrs: []net.Addr{&net.IPAddr{IP: net.ParseIP("10.0.0.4")}}},
		}}, "10.0.0.4"},
		{"private preferred", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("8.8.8.8"), ipNet("172.20.0.3")}},
		}}, "172.20.0.3"},
		{"public fallback", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("8.8.8.8")}},
		}}, "8.8.8.8"},
		{"skips loopback and ipv6", mockNetworkProvider{interfaces: []networkInterface{
			mockInterface{flags: net.FlagUp, addrs: []net.Addr{ipNet("127.0.0.1"), ipNet("fe80::1"), ipNet("192.168.1.50")}},
		}}, "192.168.1.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getPreferredIP(tt.provider))
		})
	}
}

func TestGetPreferredIP_RealNetwork(t *testing.T) {
	assert.NotEmpty(t, getPreferredIP(realNetworkProvider{}))
}
