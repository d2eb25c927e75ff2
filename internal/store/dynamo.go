package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/seshat-app/ingredients/backend/internal/model"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses
type DynamoDBAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DynamoDBAPI = (*dynamodb.Client)(nil)

// DynamoStore keeps ingredients in a DynamoDB table keyed by "id"
type DynamoStore struct {
	client    DynamoDBAPI
	tableName string
}

// NewDynamoStore creates a store over tableName
func NewDynamoStore(client DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName}
}

func (s *DynamoStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// List scans the whole table, following scan pages until exhausted
func (s *DynamoStore) List(ctx context.Context) ([]model.Ingredient, error) {
	items := []model.Ingredient{}
	input := &dynamodb.ScanInput{TableName: aws.String(s.tableName)}

	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.tableName, err)
		}

		var page []model.Ingredient
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ingredients: %w", err)
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// Get reads one ingredient
func (s *DynamoStore) Get(ctx context.Context, id string) (*model.Ingredient, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var ing model.Ingredient
	if err := attributevalue.UnmarshalMap(out.Item, &ing); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ingredient %s: %w", id, err)
	}
	return &ing, nil
}

// Put writes ing without any condition expression
func (s *DynamoStore) Put(ctx context.Context, ing *model.Ingredient) error {
	item, err := attributevalue.MarshalMap(ing)
	if err != nil {
		return fmt.Errorf("failed to marshal ingredient %s: %w", ing.ID, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put ingredient %s: %w", ing.ID, err)
	}
	return nil
}

// Delete removes one ingredient; DynamoDB treats a missing key as success
func (s *DynamoStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.key(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete ingredient %s: %w", id, err)
	}
	return nil
}
