package client

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/infrastructure/configloader"
)

// evmClientProvider implements the port.BlockchainClientProvider interface.
type evmClientProvider struct {
	clients        *cache.Cache
	mu             sync.Mutex
	transport      string
	rpcCallTimeout time.Duration
	decimals       DecimalsResolver
	httpClient     *http.Client
	zapLogger      *zap.Logger
	loggerInfo     func(msg string, args ...any)
	loggerDebug    func(msg string, args ...any)
	loggerError    func(msg string, args ...any)
}

// NewEVMClientProvider creates a new EVMClientProvider. Clients are created lazily, one per chain name.
func NewEVMClientProvider(
	cfg *configloader.Config,
	zapLogger *zap.Logger,
	loggerInfo func(msg string, args ...any),
	loggerDebug func(msg string, args ...any),
	loggerError func(msg string, args ...any),
) port.BlockchainClientProvider {
	return &evmClientProvider{
		clients:        cache.New(cache.NoExpiration, 0),
		transport:      cfg.RPCClient.Transport,
		rpcCallTimeout: time.Duration(cfg.Performance.RPCCallTimeoutMillis) * time.Millisecond,
		decimals:       cfg.DecimalsFor,
		httpClient:     &http.Client{},
		zapLogger:      zapLogger,
		loggerInfo:     loggerInfo,
		loggerDebug:    loggerDebug,
		loggerError:    loggerError,
	}
}

// GetClient retrieves a blockchain client for the given chain.
// It caches clients to avoid reconnecting repeatedly.
func (p *evmClientProvider) GetClient(chain entity.ChainConfig) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, found := p.clients.Get(chain.Name); found {
		return cached.(port.BlockchainClient), nil
	}

	p.loggerInfo("Creating new chain client", "chain", chain.Name, "rpc", chain.RPCURL, "transport", p.transport)

	var (
		newClient port.BlockchainClient
		err       error
	)
	switch p.transport {
	case configloader.TransportFastHTTP:
		newClient = NewFastHTTPClient(chain, p.rpcCallTimeout, p.decimals, p.zapLogger)
	default:
		newClient, err = NewEVMClient(chain, p.httpClient, p.rpcCallTimeout, p.decimals, p.loggerDebug)
	}
	if err != nil {
		p.loggerError("Failed to create chain client", "chain", chain.Name, "error", err)
		return nil, fmt.Errorf("failed to create client for %s: %w", chain.Name, err)
	}

	p.clients.Set(chain.Name, newClient, cache.NoExpiration)
	return newClient, nil
}
