package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farefinder-service/internal/domain/entity"
	"farefinder-service/internal/domain/repository"
	"farefinder-service/internal/infrastructure/cache"
	"farefinder-service/internal/infrastructure/config"
	"farefinder-service/internal/infrastructure/oauth"
	"farefinder-service/internal/infrastructure/persistence"
	"farefinder-service/internal/infrastructure/router"
	"farefinder-service/internal/interface/amadeus"
	"farefinder-service/internal/interface/httpapi"
	lookupRepo "farefinder-service/internal/interface/repository"
	"farefinder-service/internal/interface/simulated"
	flightUsecase "farefinder-service/internal/usecase"
	"farefinder-service/pkg/logger"
	"farefinder-service/pkg/metrics"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Farefinder Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	log = logger.NewLoggerWithLevel(cfg.LogLevel)
	defer log.Sync()

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics(cfg.MetricsNamespace, nil)

	// Lookup tables
	var gormDB *gorm.DB
	var airlineRepository repository.AirlineRepository
	var airportRepository repository.AirportRepository
	switch cfg.LookupSource {
	case config.SourcePostgres:
		log.Info("Connecting to PostgreSQL")
		gormDB, err = persistence.NewPostgres(cfg.PostgresURI)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		airlineRepository = lookupRepo.NewGormAirlineRepository(gormDB)
		airportRepository = lookupRepo.NewGormAirportRepository(gormDB)
	default:
		airlineRepository = lookupRepo.NewStaticAirlineRepository(nil)
		airportRepository = lookupRepo.NewStaticAirportRepository(nil)
	}

	// Offer catalog
	var mongoClient *mongo.Client
	var catalogRepository repository.OfferCatalogRepository
	switch cfg.OfferCatalogSource {
	case config.SourceMongo:
		log.Info("Connecting to MongoDB")
		mongoClient, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword, 10*time.Second)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		catalogRepository = lookupRepo.NewMongoOfferCatalogRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	default:
		catalogRepository = lookupRepo.NewBuiltinOfferCatalogRepository()
	}

	catalog, err := loadCatalog(ctx, catalogRepository)
	if err != nil {
		log.Fatal("Invalid offer catalog", "error", err)
	}

	// Fare provider and credentials
	var provider repository.FareProvider
	var tokenFetcher oauth.TokenFetcher
	switch cfg.FareProvider {
	case config.ProviderAmadeus:
		httpClient := &http.Client{Timeout: cfg.FareAPITimeout}
		tokenFetcher = oauth.NewClientCredentials(cfg.FareAPIClientID, cfg.FareAPIClientSecret, cfg.FareAPITokenURL, httpClient)
		provider = amadeus.NewClient(cfg.FareAPIBaseURL, cfg.FareAPITimeout, httpClient, log)
	default:
		authority := simulated.NewAuthority(cfg.CredentialTTL)
		tokenFetcher = authority
		provider = simulated.NewProvider(authority, log)
	}
	credentials := oauth.NewCredentialCache(tokenFetcher, cfg.CredentialTTL, log, m)

	// Pricing and tiers
	resolver := flightUsecase.NewDiscountResolver(catalog, log, m)
	var policy flightUsecase.SelectionPolicy = catalog.PriceBandPolicy()
	if cfg.OfferPolicy == config.PolicyRandom {
		policy = catalog.RandomPolicy(nil)
	}

	partitioner, err := newPartitioner(cfg)
	if err != nil {
		log.Fatal("Invalid tier configuration", "error", err)
	}

	searchService := flightUsecase.NewFlightSearchService(
		flightUsecase.NewOfferFetcher(provider, credentials, log, m),
		flightUsecase.NewNormalizer(airlineRepository, airportRepository, log, m),
		resolver,
		partitioner,
		policy,
		airportRepository,
		log,
		m,
	).WithDefaults(cfg.FareCurrency, cfg.FareMaxResults)
	if cfg.OfferCacheTTL > 0 {
		searchService.WithOfferCache(cache.New(entity.CloneRawOffers), cfg.OfferCacheTTL)
	}

	log.Info("Search pipeline ready",
		"provider", provider.Name(),
		"lookupSource", cfg.LookupSource,
		"catalogSource", cfg.OfferCatalogSource,
		"policy", policy.Name(),
		"tierStrategy", partitioner.Name(),
		"offerCacheTTL", cfg.OfferCacheTTL.String())

	// Set up HTTP server
	flightHandler := httpapi.NewFlightHandler(searchService, cfg.WriteTimeout, log)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.NewRouter(flightHandler, nil, log),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}
	if gormDB != nil {
		if err := persistence.ClosePostgres(gormDB); err != nil {
			log.Error("PostgreSQL close error", "error", err)
		}
	}

	log.Info("Farefinder Service stopped")
}

func loadCatalog(ctx context.Context, repo repository.OfferCatalogRepository) (*flightUsecase.OfferCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	coupons, err := repo.LoadCoupons(ctx)
	if err != nil {
		return nil, err
	}
	cards, err := repo.LoadCards(ctx)
	if err != nil {
		return nil, err
	}
	return flightUsecase.NewOfferCatalog(coupons, cards, entity.DefaultPriceBands())
}

func newPartitioner(cfg *config.Config) (flightUsecase.Partitioner, error) {
	if cfg.TierStrategy == config.TierRank {
		return flightUsecase.NewRankPartitioner(cfg.TierRankCheapest, cfg.TierRankModerate)
	}
	return flightUsecase.NewThresholdPartitioner(
		decimal.NewFromFloat(cfg.TierT1),
		decimal.NewFromFloat(cfg.TierT2),
		flightUsecase.PriceKey(cfg.TierPriceKey),
	)
}
