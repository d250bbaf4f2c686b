package secrets

import (
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-secretsmanager-caching-go/v2/secretcache"
)

// filePrefix marks a secret reference that points at a local file.
const filePrefix = "file://"

// Getter fetches a secret string by name.
type Getter interface {
	GetSecretString(secretName string) (string, error)
}

// Manager wraps the Secrets Manager cache client.
type Manager struct {
	cache *secretcache.Cache
}

// NewManager creates a new Secrets Manager cache.
func NewManager() (*Manager, error) {
	cache, err := secretcache.New()
	if err != nil {
		return nil, err
	}
	return &Manager{cache: cache}, nil
}

// GetSecretString retrieves a secret value from Secrets Manager.
func (m *Manager) GetSecretString(secretName string) (string, error) {
	if secretName == "" {
		return "", fmt.Errorf("secret name is required")
	}
	return m.cache.GetSecretString(secretName)
}

// LoadSecretFromFile reads a secret value from a local file.
func LoadSecretFromFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Resolver turns configured credentials into their values.
type Resolver struct {
	getter    Getter
	newGetter func() (Getter, error)
}

// NewResolver creates a resolver that opens the Secrets Manager cache on first use.
func NewResolver() *Resolver {
	return &Resolver{newGetter: func() (Getter, error) { return NewManager() }}
}

// Resolve returns value when set. Otherwise ref is read from a file when it
// starts with file:// and from Secrets Manager when it does not.
func (r *Resolver) Resolve(value string, ref string) (string, error) {
	if value != "" {
		return value, nil
	}
	if ref == "" {
		return "", nil
	}
	if path, ok := strings.CutPrefix(ref, filePrefix); ok {
		return LoadSecretFromFile(path)
	}
	if r.getter == nil {
		getter, err := r.newGetter()
		if err != nil {
			return "", fmt.Errorf("opening secrets manager: %w", err)
		}
		r.getter = getter
	}
	secret, err := r.getter.GetSecretString(ref)
	if err != nil {
		return "", fmt.Errorf("reading secret %s: %w", ref, err)
	}
	return strings.TrimSpace(secret), nil
}
