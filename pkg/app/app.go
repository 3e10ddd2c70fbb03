package app

import (
	"context"
	"errors"
	"fmt"

	"Coinpulse/dataprovider"
	"Coinpulse/dataprovider/binance"
	"Coinpulse/dataprovider/blockchaininfo"
	"Coinpulse/dataprovider/coingecko"
	"Coinpulse/dataprovider/coinmarketcap"
	"Coinpulse/pkg/market"
	"Coinpulse/pkg/news"
	utils "Coinpulse/utilities"
	"Coinpulse/web"
)

// Run wires configuration into provider clients, the fallback orchestrator,
// and the HTTP surface, then blocks until ctx is cancelled. Construction
// fails fast on bad wiring; after startup the only shared state is the
// read-only config inside each client.
func Run(ctx context.Context, cfg *utils.AppConfig, logger *utils.Logger) error {
	if cfg == nil {
		return errors.New("app: AppConfig cannot be nil")
	}
	if logger == nil {
		return errors.New("app: Logger cannot be nil")
	}

	spotClient, err := binance.NewClient(cfg.Binance, logger)
	if err != nil {
		return fmt.Errorf("app: binance client: %w", err)
	}
	cgClient, err := coingecko.NewClient(cfg.Coingecko, logger)
	if err != nil {
		return fmt.Errorf("app: coingecko client: %w", err)
	}
	cmcClient, err := coinmarketcap.NewClient(cfg.Coinmarketcap, logger)
	if err != nil {
		return fmt.Errorf("app: coinmarketcap client: %w", err)
	}
	fgClient, err := dataprovider.NewFearGreedClient(cfg.FearGreed, logger)
	if err != nil {
		return fmt.Errorf("app: fear & greed client: %w", err)
	}
	bcClient, err := blockchaininfo.NewClient(cfg.Blockchain, logger)
	if err != nil {
		return fmt.Errorf("app: blockchain client: %w", err)
	}

	orchestrator := market.NewOrchestrator(spotClient, cgClient, cmcClient, logger)
	newsFetcher := news.NewFetcher(cfg.News, logger)

	api := &web.API{
		AppName:      cfg.AppName,
		Version:      cfg.Version,
		Orchestrator: orchestrator,
		MarketData:   cgClient,
		Exchanges:    cgClient,
		FearGreed:    fgClient,
		Whales:       bcClient,
		News:         newsFetcher,
		Logger:       logger,
	}

	router := web.NewRouter(api, cfg.Debug)
	web.StartServer(ctx, cfg.Server, router, logger)

	logger.LogInfo("Coinpulse %s started (env: %s)", cfg.Version, cfg.Environment)
	<-ctx.Done()
	logger.LogInfo("Coinpulse stopping: %v", ctx.Err())
	return nil
}
