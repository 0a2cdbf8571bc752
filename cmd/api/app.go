package main

import (
	"context"
	"fmt"

	"github.com/notifperf-api/internal/config"
	"github.com/notifperf-api/internal/infrastructure/awsconf"
	"github.com/notifperf-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/notifperf-api/internal/infrastructure/jwt"
	"github.com/notifperf-api/internal/infrastructure/sns"
	"github.com/notifperf-api/internal/infrastructure/sqlstore"
	transporthttp "github.com/notifperf-api/internal/transport/http"
	"github.com/sirupsen/logrus"
)

// backend is the store selected by STORE_DRIVER.
type backend struct {
	notifications transporthttp.NotificationRepository
	performances  transporthttp.PerformanceRepository
	store         transporthttp.Pinger
	migrate       func(ctx context.Context) error
	close         func() error
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres, config.DriverSQLite:
		var (
			store *sqlstore.Store
			err   error
		)
		if cfg.StoreDriver == config.DriverPostgres {
			store, err = sqlstore.OpenPostgres(ctx, cfg.Postgres)
		} else {
			store, err = sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
		}
		if err != nil {
			return nil, err
		}
		return &backend{
			notifications: sqlstore.NewNotificationRepo(store),
			performances:  sqlstore.NewPerformanceRepo(store),
			store:         store,
			migrate:       store.Migrate,
			close:         store.Close,
		}, nil

	case config.DriverDynamoDB:
		awsCfg, err := awsconf.Load(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store := dynamo.NewStore(dynamo.NewClient(awsCfg, cfg), cfg.DynamoTables)
		return &backend{
			notifications: dynamo.NewNotificationRepo(store),
			performances:  dynamo.NewPerformanceRepo(store),
			store:         store,
			migrate: func(ctx context.Context) error {
				store.Bootstrap(ctx)
				return nil
			},
			close: func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// newPublisher returns nil when no SNS topic is configured.
func newPublisher(ctx context.Context, cfg *config.Config) (transporthttp.GenerationPublisher, error) {
	if cfg.SNSTopicARN == "" {
		return nil, nil
	}
	awsCfg, err := awsconf.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logrus.WithField("topic", cfg.SNSTopicARN).Info("publishing generation events")
	return sns.NewPublisher(sns.NewClient(awsCfg, cfg), cfg.SNSTopicARN), nil
}

// newJWTProvider returns nil when no public key is configured. A configured
// but unreadable key is an error; the API never silently falls back to open.
func newJWTProvider(cfg *config.Config) (*jwtinfra.Provider, error) {
	if cfg.JWTPublicKeyPath == "" {
		return nil, nil
	}
	return jwtinfra.NewProvider(cfg)
}
