package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tomlcache "github.com/trak-cli/trak/internal/adapters/cache/toml"
	"github.com/trak-cli/trak/internal/adapters/remote/api"
	"github.com/trak-cli/trak/internal/adapters/render/timerview"
	chainstore "github.com/trak-cli/trak/internal/adapters/secrets/chain"
	"github.com/trak-cli/trak/internal/application"
	"github.com/trak-cli/trak/internal/domain"
	"github.com/trak-cli/trak/internal/ports"
)

const (
	tokenKey      = "api_token"
	baseURLKey    = "api.base_url"
	userIDKey     = "user.id"
	configDirName = ".trak"
)

type app struct {
	cfg        *viper.Viper
	tokenStore ports.TokenStore
	httpClient *http.Client
	now        func() time.Time

	statusRenderer  func(application.TimerStatus, timerview.RenderOptions) (string, error)
	entriesRenderer func([]domain.TimeEntry, timerview.RenderOptions) (string, error)
	reportRenderer  func(application.Report, timerview.RenderOptions) (string, error)

	mu      sync.Mutex
	timers  *application.TimerService
	reports *application.ReportService
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetDefault(baseURLKey, "http://localhost:5000/api")
	cfg.SetEnvPrefix("TRAK")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	tokenStore, err := chainstore.NewEnvFirstWithFileFallback(filepath.Join(homeDir, configDirName, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire token store chain: %w", err)
	}

	return &app{
		cfg:             cfg,
		tokenStore:      tokenStore,
		httpClient:      http.DefaultClient,
		now:             time.Now,
		statusRenderer:  timerview.RenderStatus,
		entriesRenderer: timerview.RenderEntries,
		reportRenderer:  timerview.RenderReport,
	}, nil
}

func (a *app) userID() (domain.ObjectID, error) {
	raw := a.cfg.GetString(userIDKey)
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("user ID not configured: set %s in ~/%s/config.toml or TRAK_USER_ID", userIDKey, configDirName)
	}

	user, err := domain.ParseObjectID(raw)
	if err != nil {
		return "", fmt.Errorf("configured user ID: %w", err)
	}

	return user, nil
}

// remote builds the API client. A missing token is tolerated so that cached
// timer state stays readable offline; the backend rejects the call instead.
func (a *app) remote(ctx context.Context) (ports.TimerRemote, error) {
	token, err := a.tokenStore.Get(ctx, tokenKey)
	if err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
		return nil, fmt.Errorf("load api token: %w", err)
	}

	return api.NewClient(a.cfg.GetString(baseURLKey), token, a.httpClient), nil
}

func (a *app) timerService(ctx context.Context) (*application.TimerService, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timers != nil {
		return a.timers, nil
	}

	user, err := a.userID()
	if err != nil {
		return nil, err
	}

	remote, err := a.remote(ctx)
	if err != nil {
		return nil, err
	}

	cache, err := tomlcache.NewCache(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("wire timer cache: %w", err)
	}

	a.timers = application.NewTimerService(remote, cache, ports.SystemClock{}, user)
	return a.timers, nil
}

func (a *app) reportService(ctx context.Context) (*application.ReportService, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.reports != nil {
		return a.reports, nil
	}

	remote, err := a.remote(ctx)
	if err != nil {
		return nil, err
	}

	a.reports = application.NewReportService(remote, ports.SystemClock{})
	return a.reports, nil
}

// recoverTimeout bounds the reconciliation listing. An unreachable backend
// must degrade to the cached slot within this budget instead of burning the
// full per-request timeout across every retry.
var recoverTimeout = 5 * time.Second

// recoverSession reconciles cached timer state against the backend before a
// command acts on it. A degraded result is reported but never fatal.
func recoverSession(cmd *cobra.Command, svc *application.TimerService) (application.RecoverResult, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), recoverTimeout)
	defer cancel()

	result, err := svc.Recover(ctx)
	if err != nil {
		return result, fmt.Errorf("recover timer session: %w", err)
	}
	if result.Degraded {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: backend unreachable, using cached timer state")
	}

	return result, nil
}
