package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/liftmeet/internal/auth"
	"github.com/abrezinsky/liftmeet/internal/config"
	"github.com/abrezinsky/liftmeet/internal/handlers"
	"github.com/abrezinsky/liftmeet/internal/logger"
	"github.com/abrezinsky/liftmeet/internal/repository"
	"github.com/abrezinsky/liftmeet/internal/scoring"
	"github.com/abrezinsky/liftmeet/internal/services"
	"github.com/abrezinsky/liftmeet/internal/websocket"
)

// shutdownTimeout bounds how long Run waits for in-flight requests
const shutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	services handlers.Services
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config, adminAuth *auth.Auth) (*App, error) {
	cache, err := scoring.NewTableCache(func() (*scoring.Tables, error) {
		return scoring.LoadTables(cfg.Coefficients.ReshelFile, cfg.Coefficients.McCulloughFile)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load coefficient tables: %w", err)
	}

	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	// Initialize services
	settingsService := services.NewSettingsService(log, repo, cache)
	resultsService := services.NewResultsService(log, repo, settingsService)
	contestService := services.NewContestService(log, repo, settingsService, resultsService)
	competitorService := services.NewCompetitorService(log, repo, resultsService)
	registrationService := services.NewRegistrationService(log, repo, settingsService, resultsService)
	attemptService := services.NewAttemptService(log, repo, resultsService)
	plateService := services.NewPlateService(log, repo, services.Equipment{
		BarWeightMaleKg:   cfg.Equipment.BarWeightMaleKg,
		BarWeightFemaleKg: cfg.Equipment.BarWeightFemaleKg,
		ClampWeightKg:     cfg.Equipment.ClampWeightKg,
	})
	exportService := services.NewExportService(log, contestService, resultsService)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, attemptService)
	hub.Start()
	resultsService.SetBroadcaster(hub)
	attemptService.SetBroadcaster(hub)

	svc := handlers.Services{
		Contests:      contestService,
		Competitors:   competitorService,
		Registrations: registrationService,
		Attempts:      attemptService,
		Results:       resultsService,
		Plates:        plateService,
		Settings:      settingsService,
		Export:        exportService,
	}
	limiter := handlers.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: handlers.New(svc, adminAuth, hub, repo, limiter, log),
		repo:     repo,
		services: svc,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.RouterWithTimeout(a.cfg.Server.RequestTimeout)
}

// Services exposes the wired services to the command line
func (a *App) Services() handlers.Services {
	return a.services
}

// Close releases the database
func (a *App) Close() error {
	return a.repo.Close()
}

// Run serves HTTP on addr until ctx is cancelled, then drains in-flight requests
func (a *App) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	baseURL := a.cfg.PublicBaseURL
	if baseURL == "" {
		ip := getPreferredIP(realNetworkProvider{})
		baseURL = fmt.Sprintf("http://%s:%d", ip, ln.Addr().(*net.TCPAddr).Port)
		a.setDefaultBaseURL(baseURL)
	} else {
		a.setBaseURL(baseURL)
	}

	srv := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Scoreboard feed", "url", strings.Replace(baseURL, "http", "ws", 1)+"/ws")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, "base_url")

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		a.setBaseURL(baseURL)
	}
}

// setBaseURL stores the base URL, logging instead of failing
func (a *App) setBaseURL(baseURL string) {
	if err := a.repo.SetSetting(context.Background(), "base_url", baseURL); err != nil {
		a.log.Warn("Failed to set base_url", "error", err)
		return
	}
	a.log.Info("Base URL set", "url", baseURL)
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the address scoreboards on the gym network should use.
// Private IPv4 addresses win; otherwise any non-loopback IPv4, else localhost.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
