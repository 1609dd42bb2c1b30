package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/trak-cli/trak/internal/domain"
	"github.com/trak-cli/trak/internal/ports"
)

const (
	configName    = "config"
	configType    = "toml"
	cachePathKey  = "timer.cache_path"
	cacheFileMode = 0o600
	cacheDirMode  = 0o700
	cacheDir      = ".trak"
	cacheFile     = "active-timer.toml"
	tempPattern   = ".active-timer-*.toml.tmp"
)

// Cache persists at most one active timer to disk so the client can restore
// it after a crash or restart. The slot is a recovery hint only; reconciliation
// against the backend decides whether its contents survive.
type Cache struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.TimerCache = (*Cache)(nil)

func NewCache(cfg *viper.Viper) (*Cache, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, cacheDir, cacheFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, cacheDir))
	cfg.SetDefault(cachePathKey, defaultPath)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	path := cfg.GetString(cachePathKey)
	if path == "" {
		return nil, errors.New("timer cache path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Cache{path: path, mu: lockForPath(path)}, nil
}

func (c *Cache) Read(ctx context.Context) (domain.ActiveTimer, error) {
	if err := ctx.Err(); err != nil {
		return domain.ActiveTimer{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ActiveTimer{}, domain.ErrCacheMiss
		}
		return domain.ActiveTimer{}, fmt.Errorf("read timer cache: %w", err)
	}

	var file slotSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.ActiveTimer{}, fmt.Errorf("decode timer cache: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.ActiveTimer{}, err
	}

	timer, err := file.toDomain()
	if err != nil {
		return domain.ActiveTimer{}, fmt.Errorf("decode timer cache: %w", err)
	}

	return timer, nil
}

func (c *Cache) Write(ctx context.Context, timer domain.ActiveTimer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := timer.Validate(); err != nil {
		return fmt.Errorf("refuse to cache invalid timer: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), cacheDirMode); err != nil {
		return fmt.Errorf("create timer cache directory: %w", err)
	}

	data, err := toml.Marshal(fromDomain(timer))
	if err != nil {
		return fmt.Errorf("encode timer cache: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(c.path), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp timer cache file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp timer cache file: %w", err)
	}
	if err := tempFile.Chmod(cacheFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp timer cache file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp timer cache file: %w", err)
	}

	if err := os.Rename(tempName, c.path); err != nil {
		return fmt.Errorf("replace timer cache file: %w", err)
	}
	cleanup = false

	return nil
}

func (c *Cache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear timer cache: %w", err)
	}

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve timer cache path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
