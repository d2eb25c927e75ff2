package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/seshat-app/ingredients/backend/config"
	"github.com/seshat-app/ingredients/backend/internal/database"
)

// Open builds the store selected by cfg.StoreDriver. The returned close
// function releases the underlying connections.
func Open(ctx context.Context, cfg *config.Config) (Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreDynamoDB:
		awsCfg, err := config.LoadAWSConfig(ctx, cfg.TableRegion)
		if err != nil {
			return nil, nil, err
		}
		return NewDynamoStore(NewDynamoClient(awsCfg, cfg.DynamoDBEndpoint), cfg.TableName), func() error { return nil }, nil

	case config.StoreSQLite, config.StorePostgres:
		db, err := database.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		s, err := NewSQLStore(db)
		if err != nil {
			sqlDB.Close()
			return nil, nil, err
		}
		return s, sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewDynamoClient creates a DynamoDB client, pointed at endpoint when it is
// set (DynamoDB Local).
func NewDynamoClient(awsCfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
