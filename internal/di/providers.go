package di

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/handler/api"
	internalrepo "MarketLens/internal/repository"
	"MarketLens/internal/services/binance"
	"MarketLens/internal/usecase"
	"MarketLens/pkg/cache"
	pkgch "MarketLens/pkg/clickhouse"
	"MarketLens/pkg/config"
	xhttp "MarketLens/pkg/http"
	pkgkafka "MarketLens/pkg/kafka"
	applogger "MarketLens/pkg/logger"
	"MarketLens/pkg/metrics"
	"MarketLens/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// backend is selected. Other backends get a nil client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Data.Backend != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.CandlesSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSeriesStore selects the persistence backend for candle series.
func ProvideSeriesStore(cfg *config.Config, chClient *pkgch.Client, l *applogger.Logger) (domrepo.SeriesStore, error) {
	switch cfg.Data.Backend {
	case "clickhouse":
		return internalrepo.NewCHSeriesStore(chClient, l), nil
	case "memory":
		return internalrepo.NewMemorySeriesStore(), nil
	default:
		return internalrepo.NewCSVSeriesStore(cfg.Data.Dir, l), nil
	}
}

// ProvideCandleProvider creates the Binance klines fetcher.
func ProvideCandleProvider(cfg *config.Config, l *applogger.Logger) domrepo.CandleProvider {
	httpClient := xhttp.NewClient(xhttp.WithTimeout(cfg.Binance.Timeout))
	return binance.NewClient(httpClient, cfg.Binance.BaseURL, l,
		binance.WithPageLimit(cfg.Binance.PageLimit),
		binance.WithPageDelay(cfg.Binance.PageDelay),
	)
}

// ProvideSnapshotPublisher creates a Kafka publisher when enabled, otherwise
// a noop.
func ProvideSnapshotPublisher(cfg *config.Config, l *applogger.Logger) (domrepo.SnapshotPublisher, error) {
	if !cfg.Kafka.Enabled {
		return internalrepo.NoopSnapshotPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers...),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic, l), nil
}

// ProvideViewCache builds the classified-view cache: memory only by default,
// layered over Redis when configured. A nil cache disables view caching.
func ProvideViewCache(cfg *config.Config, l *applogger.Logger) (cache.Service, error) {
	if !cfg.ViewCache.Enabled {
		return nil, nil
	}
	if !cfg.ViewCache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.ViewCache.Redis.Host),
		cache.WithRedisPort(cfg.ViewCache.Redis.Port),
		cache.WithRedisCredentials(cfg.ViewCache.Redis.Password, cfg.ViewCache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideSeriesManager creates the candle series lifecycle manager.
func ProvideSeriesManager(
	store domrepo.SeriesStore,
	provider domrepo.CandleProvider,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SeriesManager {
	return usecase.NewSeriesManager(store, provider, m, l, usecase.SeriesOptions{
		Freshness:       cfg.Data.Freshness,
		MinRefreshAge:   cfg.Data.MinRefreshAge,
		InitialLookback: cfg.Data.InitialLookback,
		BackfillBack:    cfg.Data.BackfillBack,
		BackfillForward: cfg.Data.BackfillForward,
	})
}

// ProvideMarketAnalyzer creates the classification use case.
func ProvideMarketAnalyzer(
	series *usecase.SeriesManager,
	publisher domrepo.SnapshotPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	viewCache cache.Service,
	cfg *config.Config,
) *usecase.MarketAnalyzer {
	intervals := make([]domrepo.Interval, 0, len(cfg.Engine.Intervals))
	for _, s := range cfg.Engine.Intervals {
		iv := domrepo.Interval(s)
		if domrepo.IsValidInterval(iv) {
			intervals = append(intervals, iv)
		}
	}
	return usecase.NewMarketAnalyzer(series, publisher, m, l, viewCache, cfg.ViewCache.TTL, intervals)
}

// ProvideCandlesUseCase creates the raw candles use case.
func ProvideCandlesUseCase(series *usecase.SeriesManager) *usecase.CandlesUseCase {
	return usecase.NewCandlesUseCase(series)
}

// ProvideMarketHandler creates the HTTP handler.
func ProvideMarketHandler(l *applogger.Logger, analyzer *usecase.MarketAnalyzer, candles *usecase.CandlesUseCase) *api.MarketHandler {
	return api.NewMarketHandler(l, analyzer, candles)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.MarketHandler,
	publisher domrepo.SnapshotPublisher,
	viewCache cache.Service,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, publisher, viewCache, chClient)
}
