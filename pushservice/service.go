package pushservice

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"

	"github.com/cartloop/go-push-service/internal/storage/cache"
	fsstore "github.com/cartloop/go-push-service/internal/storage/firestore"
	pgstore "github.com/cartloop/go-push-service/internal/storage/postgres"
	"github.com/cartloop/go-push-service/pkg/dispatch"
	"github.com/cartloop/go-push-service/pkg/notification"
	"github.com/cartloop/go-push-service/pushservice/config"
)

// Service bundles the dispatch orchestrator with a device registry so a
// host application can notify customers without wiring the two by hand.
type Service struct {
	Sender *Sender
	Store  dispatch.DeviceStore

	logger  *slog.Logger
	closers []func() error
}

// NewService pairs an already-built Sender with a caller-supplied device
// registry.
func NewService(sender *Sender, store dispatch.DeviceStore, logger *slog.Logger) (*Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("pushservice: sender is required")
	}
	if store == nil {
		return nil, fmt.Errorf("pushservice: device store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Sender: sender,
		Store:  store,
		logger: logger.With("component", "PushService"),
	}, nil
}

// New assembles the service: Firebase messaging client, the configured
// device registry adapter, and an optional Redis read-aside cache in
// front of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init messaging client: %w", err)
	}

	sender, err := NewSender(client, cfg.DryRun, logger)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		Sender: sender,
		logger: logger.With("component", "PushService"),
	}

	switch cfg.Store {
	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		svc.closers = append(svc.closers, func() error { pool.Close(); return nil })
		svc.Store = pgstore.NewDeviceStore(pool)
	case config.StoreFirestore:
		fsClient, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to init firestore client: %w", err)
		}
		svc.closers = append(svc.closers, fsClient.Close)
		svc.Store = fsstore.NewDeviceStore(fsClient)
	default:
		return nil, fmt.Errorf("unknown device store %q", cfg.Store)
	}

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		svc.closers = append(svc.closers, redisClient.Close)
		svc.Store = cache.NewCachedDeviceStore(svc.Store, redisClient, cfg.Redis.TTL)
		logger.Info("Device registry cache enabled", "ttl", cfg.Redis.TTL)
	}

	return svc, nil
}

// NotifyCustomer fans a payload out to every active device of a customer
// and feeds dead tokens back into the registry, the self-healing loop the
// send operations themselves deliberately leave to the caller.
func (s *Service) NotifyCustomer(ctx context.Context, customerID string, p notification.Payload) (notification.BatchResult, error) {
	devices, err := s.Store.GetCustomerDevices(ctx, customerID)
	if err != nil {
		return notification.BatchResult{}, fmt.Errorf("fetch customer devices: %w", err)
	}

	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Token
	}

	batch := s.Sender.SendToDevices(ctx, tokens, p)

	if invalid := batch.InvalidTokens(); len(invalid) > 0 {
		s.logger.Info("Cleaning up invalid tokens", "customer_id", customerID, "count", len(invalid))
		if err := s.Store.MarkTokensAsInvalid(ctx, invalid); err != nil {
			s.logger.Warn("Failed to mark tokens invalid", "err", err)
		}
	}

	return batch, nil
}

// Close releases every backing client the service opened.
func (s *Service) Close() error {
	var finalErr error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			s.logger.Error("Close failed", "err", err)
			finalErr = err
		}
	}
	return finalErr
}
