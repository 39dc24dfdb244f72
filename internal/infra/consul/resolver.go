package consul

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

// ErrResolution means no gateway address could be obtained: the
// registry was unreachable or empty and no static fallback is
// configured.
var ErrResolution = errors.New("service discovery failed")

// Resolver turns a logical service name into a base URL using the
// registry's health endpoint. The first successful resolution is
// cached until ClearCache; a stale address is acceptable, callers that
// need a fresh one clear the cache first.
type Resolver struct {
	consulAddr  string
	serviceName string
	fallbackURL string
	httpClient  *http.Client

	mu      sync.Mutex
	baseURL string
}

func NewResolver(consulAddr, serviceName, fallbackURL string, timeout time.Duration) *Resolver {
	return &Resolver{
		consulAddr:  consulAddr,
		serviceName: serviceName,
		fallbackURL: fallbackURL,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type healthEntry struct {
	Node struct {
		Address string `json:"Address"`
	} `json:"Node"`
	Service struct {
		Address string `json:"Address"`
		Port    int    `json:"Port"`
	} `json:"Service"`
}

func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.baseURL != "" {
		return r.baseURL, nil
	}

	url := fmt.Sprintf("%s/v1/health/service/%s?passing=true", r.consulAddr, r.serviceName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return r.fallbackOr(fmt.Errorf("registry unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return r.fallbackOr(fmt.Errorf("registry returned status %d", resp.StatusCode))
	}

	var entries []healthEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return r.fallbackOr(fmt.Errorf("decoding registry response: %v", err))
	}

	if len(entries) == 0 {
		return r.fallbackOr(fmt.Errorf("no healthy instance of %s", r.serviceName))
	}

	// Uniform random pick spreads load across healthy instances.
	entry := entries[rand.IntN(len(entries))]
	addr := entry.Service.Address
	if addr == "" {
		addr = entry.Node.Address
	}
	if addr == "" || entry.Service.Port == 0 {
		return r.fallbackOr(fmt.Errorf("incomplete registry entry for %s", r.serviceName))
	}

	r.baseURL = fmt.Sprintf("http://%s:%d", addr, entry.Service.Port)
	return r.baseURL, nil
}

func (r *Resolver) fallbackOr(cause error) (string, error) {
	if r.fallbackURL != "" {
		r.baseURL = r.fallbackURL
		return r.baseURL, nil
	}
	return "", fmt.Errorf("%w: %v", ErrResolution, cause)
}

// ClearCache drops the cached address so the next Resolve queries the
// registry again.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.baseURL = ""
	r.mu.Unlock()
}
