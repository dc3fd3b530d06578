package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"pnl_checker/internal/app/port"
	"pnl_checker/internal/domain/entity"
	"pnl_checker/internal/infrastructure/configloader"
	"pnl_checker/internal/pkg/utils"
)

// BalanceServiceImpl implements port.BalanceService.
type BalanceServiceImpl struct {
	clientProvider      port.BlockchainClientProvider
	logger              port.Logger
	maxConcurrentChains int
	decodeFailure       string
}

// NewBalanceService creates a new instance of BalanceServiceImpl.
// maxConcurrentChains <= 0 runs every chain at once.
func NewBalanceService(
	cp port.BlockchainClientProvider,
	l port.Logger,
	maxConcurrentChains int,
	decodeFailure string,
) port.BalanceService {
	if decodeFailure == "" {
		decodeFailure = configloader.DecodeFailureZero
	}
	return &BalanceServiceImpl{
		clientProvider:      cp,
		logger:              l,
		maxConcurrentChains: maxConcurrentChains,
		decodeFailure:       decodeFailure,
	}
}

// CollectBalances implements port.BalanceService.
func (s *BalanceServiceImpl) CollectBalances(
	ctx context.Context,
	chains []entity.ChainConfig,
	wallets, tokens []string,
) []entity.BalanceRecord {
	targets := entity.CrossProduct(wallets, tokens)
	if len(chains) == 0 || len(targets) == 0 {
		s.logger.Warn("Nothing to query", "chains", len(chains), "targets", len(targets))
		return []entity.BalanceRecord{}
	}

	results := make(chan entity.BalanceRecord)
	collected := make(chan []entity.BalanceRecord, 1)
	go func() {
		records := make([]entity.BalanceRecord, 0, len(chains)*len(targets))
		for r := range results {
			records = append(records, r)
		}
		collected <- records
	}()

	var g errgroup.Group
	if s.maxConcurrentChains > 0 {
		g.SetLimit(s.maxConcurrentChains)
	}
	for _, chain := range chains {
		g.Go(func() error {
			s.queryChain(ctx, chain, targets, results)
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	return <-collected
}

// queryChain walks every target sequentially on one chain. Failures stay local to the pair or the chain.
func (s *BalanceServiceImpl) queryChain(
	ctx context.Context,
	chain entity.ChainConfig,
	targets []entity.QueryTarget,
	results chan<- entity.BalanceRecord,
) {
	started := time.Now()
	client, err := s.clientProvider.GetClient(chain)
	if err != nil {
		s.logger.Error("Skipping chain: client unavailable", "chain", chain.Name, "error", err)
		return
	}
	s.logger.Debug("Querying chain", "chain", chain.Name, "rpc", chain.RPCURL, "multicall", chain.MulticallAddress, "targets", len(targets))

	produced, skipped := 0, 0
	for _, target := range targets {
		if ctx.Err() != nil {
			s.logger.Warn("Chain query interrupted", "chain", chain.Name, "error", ctx.Err())
			break
		}

		res, ok := client.BalanceOf(ctx, target.TokenAddress, target.WalletAddress)
		if !ok {
			skipped++
			continue
		}
		if !res.Decoded {
			if s.decodeFailure == configloader.DecodeFailureSkip {
				s.logger.Debug("Dropping undecodable balance", "chain", chain.Name, "wallet", target.WalletAddress, "token", target.TokenAddress)
				skipped++
				continue
			}
			s.logger.Debug("Undecodable balance treated as zero", "chain", chain.Name, "wallet", target.WalletAddress, "token", target.TokenAddress)
		}

		if formatted, err := utils.FormatBigInt(res.Raw, entity.DefaultTokenDecimals); err == nil {
			s.logger.Debug("Balance fetched", "chain", chain.Name, "wallet", target.WalletAddress, "token", target.TokenAddress,
				"raw", res.Raw, "formatted_18", formatted, "qty", res.Quantity)
		}

		results <- entity.BalanceRecord{
			Chain:         chain.Name,
			WalletAddress: target.WalletAddress,
			TokenAddress:  target.TokenAddress,
			Quantity:      res.Quantity,
			Raw:           res.Raw,
			Decoded:       res.Decoded,
		}
		produced++
	}

	s.logger.Info("Chain done", "chain", chain.Name, "records", produced, "skipped", skipped, "elapsed", time.Since(started))
}
