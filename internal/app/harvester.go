package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Sosisya/films-api/internal/config"
	"github.com/Sosisya/films-api/internal/harvester"
	"github.com/Sosisya/films-api/internal/logger"
	"github.com/Sosisya/films-api/internal/storage"
	"github.com/Sosisya/films-api/pkg/feeds"
	"github.com/Sosisya/films-api/pkg/filmsapi"
	"github.com/Sosisya/films-api/pkg/httpclient"
	"github.com/Sosisya/films-api/pkg/publishers"
)

// Harvester is the long-running runtime that polls catalog feeds and publishes
// newly listed movies. It owns the storage backend and the publisher fan-out.
type Harvester struct {
	cfg          *config.Config
	feedReg      *feeds.Registry
	fanout       *publishers.Fanout
	service      *harvester.Service
	pollInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	feedReg, err := feeds.LoadRegistry(cfg.FeedsFile)
	if err != nil {
		return nil, fmt.Errorf("load feeds registry: %w", err)
	}
	feedIDs := make([]string, 0, len(feedReg.All()))
	for _, f := range feedReg.All() {
		feedIDs = append(feedIDs, f.ID)
	}
	log.InfoObj("feeds registry loaded", "feeds_meta", map[string]any{
		"count": len(feedIDs),
		"ids":   feedIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		MovieTTL:        cfg.MovieTTL,
		ResponseTTL:     cfg.ResponseTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"movie_ttl_seconds":        int(cfg.MovieTTL.Seconds()),
		"response_ttl_seconds":     int(cfg.ResponseTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	catalog, err := NewCatalogClient(cfg, store, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients).WithLogger(log)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	var pageClient httpclient.Client
	if cfg.EnrichHomepage {
		pageClient = httpclient.NewRestyClientWithOptions(httpclient.Options{
			Timeout:             cfg.RequestTimeout,
			WaitForConnectivity: cfg.WaitForConnectivity,
		})
	}
	service := harvester.NewService(catalog, fanout, log, store,
		harvester.WithConcurrency(cfg.HarvestConcurrency),
		harvester.WithEnricher(harvester.NewDetailsEnricher(catalog, pageClient, cfg.EnrichHomepage, log)),
	)

	return &Harvester{
		cfg:          cfg,
		feedReg:      feedReg,
		fanout:       fanout,
		service:      service,
		pollInterval: cfg.PollInterval,
		log:          log,
		store:        store,
	}, nil
}

// NewCatalogClient builds the movie catalog client, layering the response
// cache over the resty transport unless storage is disabled or the policy is reload.
func NewCatalogClient(cfg *config.Config, store storage.Store, log logger.Logger) (*filmsapi.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	opts := httpclient.Options{
		Timeout:             cfg.RequestTimeout,
		WaitForConnectivity: cfg.WaitForConnectivity,
	}
	var transport httpclient.Client = httpclient.NewRestyClientWithOptions(opts)

	policy := cfg.CachePolicy
	if store == nil || storage.IsNoop(store) {
		policy = httpclient.CachePolicyReload
	}
	transport, err := httpclient.WithCachePolicy(transport, store, policy, log)
	if err != nil {
		return nil, fmt.Errorf("configure cache policy: %w", err)
	}

	apiCfg := filmsapi.Config{
		BaseURL:             cfg.BaseURL,
		APIKey:              cfg.APIKey,
		Timeout:             cfg.RequestTimeout,
		WaitForConnectivity: cfg.WaitForConnectivity,
	}
	client, err := filmsapi.New(apiCfg, transport, log)
	if err != nil {
		return nil, fmt.Errorf("create catalog client: %w", err)
	}
	log.InfoObj("catalog client ready", "catalog_config", map[string]any{
		"base_url":              client.BaseURL(),
		"cache_policy":          policy,
		"timeout_seconds":       int(cfg.RequestTimeout.Seconds()),
		"wait_for_connectivity": cfg.WaitForConnectivity,
	})
	return client, nil
}

// Run starts the poll loop until the context is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.service == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.close()

	list := h.feedReg.Enabled()
	if len(list) == 0 {
		h.log.WarnObj("no feeds enabled; harvester idle", "feeds_file", h.cfg.FeedsFile)
		<-ctx.Done()
		return nil
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"feeds_count":      len(list),
		"publishers_count": h.fanout.Size(),
		"poll_interval":    h.pollInterval.String(),
	})

	if err := h.runOnce(ctx, list); err != nil {
		h.log.ErrorObj("initial harvest failed", "error", err.Error())
	}

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := h.runOnce(ctx, list); err != nil {
				h.log.ErrorObj("scheduled harvest failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single harvest pass across the enabled feeds.
func (h *Harvester) runOnce(ctx context.Context, list []feeds.Feed) error {
	start := time.Now()
	h.log.InfoObj("harvest started", "harvest_meta", map[string]any{
		"feeds_count": len(list),
		"started_at":  start.UTC(),
	})
	if err := h.service.Run(ctx, list); err != nil {
		return err
	}
	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"feeds_count": len(list),
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})
	return nil
}

// close releases publishers and the storage backend, logging any errors encountered.
func (h *Harvester) close() {
	if h == nil {
		return
	}
	if err := h.fanout.Close(); err != nil {
		h.log.ErrorObj("publisher close failed", "error", err.Error())
	}
	if h.store != nil {
		if err := h.store.Close(); err != nil {
			h.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
}
