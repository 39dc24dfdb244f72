package catalog

import "context"

type ProductClientInterface interface {
	GetProductByCode(ctx context.Context, code int) (*ProductInfo, error)
}

// GatewayResolver is satisfied by consul.Resolver.
type GatewayResolver interface {
	Resolve(ctx context.Context) (string, error)
	ClearCache()
}

var _ ProductClientInterface = (*ProductClient)(nil)
