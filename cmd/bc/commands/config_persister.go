package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/bcapi/internal/constants"
	"github.com/spf13/viper"
)

// ConfigPersister implements auth.TokenPersister over the CLI config file.
type ConfigPersister struct {
	mutex sync.Mutex
}

// NewConfigPersister creates a new config persister.
func NewConfigPersister() *ConfigPersister {
	return &ConfigPersister{}
}

// PersistToken stores the token and its expiry when it belongs to the
// configured tenant.
func (p *ConfigPersister) PersistToken(tenantID, token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if tenantID != viper.GetString(keyTenantID) {
		return fmt.Errorf("tenant %q: %w", tenantID, constants.ErrTokenTenantMismatch)
	}

	viper.Set(keyToken, token)

	if !expiresAt.IsZero() {
		viper.Set(keyTokenExpiresAt, expiresAt.UTC().Format(time.RFC3339))
	}

	return saveConfig(loadConfig())
}
