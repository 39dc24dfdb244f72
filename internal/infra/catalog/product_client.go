package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUpstream        = errors.New("catalog request failed")
)

// ProductInfo mirrors the catalog service's product payload.
type ProductInfo struct {
	ID            uint64  `json:"id"`
	CodigoProduto int     `json:"codigoProduto"`
	Descricao     string  `json:"descricao"`
	Preco         float64 `json:"preco"`
	CodGruEst     int     `json:"codGruEst"`
}

// ProductClient reads the catalog through the API gateway. The gateway
// address comes from the resolver on every call, which normally hits
// its cache; no retries here, the caller decides whether to retry.
type ProductClient struct {
	resolver   GatewayResolver
	rootPath   string
	httpClient *http.Client
}

func NewProductClient(resolver GatewayResolver, rootPath string, timeout time.Duration) *ProductClient {
	return &ProductClient{
		resolver:   resolver,
		rootPath:   rootPath,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *ProductClient) GetProductByCode(ctx context.Context, code int) (*ProductInfo, error) {
	base, err := c.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/produto/codigo/%d", base, c.rootPath, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: catalog returned status %d", ErrUpstream, resp.StatusCode)
	}

	var p ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decoding product: %v", ErrUpstream, err)
	}
	return &p, nil
}
