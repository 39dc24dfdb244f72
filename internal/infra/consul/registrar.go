package consul

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// Registrar keeps this service visible in the registry. Registration
// carries an HTTP health check so the registry drops the instance when
// /health stops answering.
type Registrar struct {
	consulAddr  string
	serviceID   string
	serviceName string
	address     string
	port        int
	httpClient  *http.Client
}

func NewRegistrar(consulAddr, serviceName, address string, port int) *Registrar {
	return &Registrar{
		consulAddr:  consulAddr,
		serviceID:   serviceName + "-instance",
		serviceName: serviceName,
		address:     address,
		port:        port,
		httpClient:  &http.Client{Timeout: 3 * time.Second},
	}
}

type registration struct {
	ID      string      `json:"ID"`
	Name    string      `json:"Name"`
	Address string      `json:"Address"`
	Port    int         `json:"Port"`
	Check   healthCheck `json:"Check"`
}

type healthCheck struct {
	HTTP     string `json:"HTTP"`
	Interval string `json:"Interval"`
	Timeout  string `json:"Timeout"`
}

func (g *Registrar) Register(ctx context.Context) error {
	// A stable service ID means re-registration replaces any stale
	// entry left by a previous run.
	g.deregister(ctx)

	payload := registration{
		ID:      g.serviceID,
		Name:    g.serviceName,
		Address: g.address,
		Port:    g.port,
		Check: healthCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/health", g.address, g.port),
			Interval: "10s",
			Timeout:  "2s",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/agent/service/register", g.consulAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	return nil
}

// RegisterWithRetry keeps trying at startup so the service survives a
// registry that comes up later than we do.
func (g *Registrar) RegisterWithRetry(ctx context.Context, attempts int, wait time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = g.Register(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("registering service %s: %w", g.serviceName, err)
}

// Deregister is best effort: at shutdown a failure only leaves a stale
// entry that the health check will expire.
func (g *Registrar) Deregister() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := g.deregister(ctx); err != nil {
		log.Printf("consul deregister: %v", err)
	}
}

func (g *Registrar) deregister(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/agent/service/deregister/%s", g.consulAddr, g.serviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return err
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
