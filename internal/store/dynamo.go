package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/serroba/tinyurl/internal/shortener"
)

const tableActiveTimeout = 2 * time.Minute

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DescribeTable(
		ctx context.Context, in *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options),
	) (*dynamodb.DescribeTableOutput, error)
	CreateTable(
		ctx context.Context, in *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options),
	) (*dynamodb.CreateTableOutput, error)
	UpdateTimeToLive(
		ctx context.Context, in *dynamodb.UpdateTimeToLiveInput, optFns ...func(*dynamodb.Options),
	) (*dynamodb.UpdateTimeToLiveOutput, error)
}

// NewDynamoClient loads the default AWS configuration for region.
// A non-empty endpoint points the client at a local DynamoDB.
func NewDynamoClient(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

// DynamoStore stores one item per code in a DynamoDB table whose hash key is
// "code". The expires_at attribute holds epoch seconds and serves as the
// table's TTL attribute.
type DynamoStore struct {
	api   DynamoAPI
	table string
}

// NewDynamoStore creates a DynamoDB-backed store for table.
func NewDynamoStore(api DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{api: api, table: table}
}

// EnsureTable creates the table and enables TTL on expires_at when the table
// does not exist yet.
func (d *DynamoStore) EnsureTable(ctx context.Context) error {
	_, err := d.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)})
	if err == nil {
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe table %s: %w", d.table, err)
	}

	_, err = d.api.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(d.table),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("code"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("code"), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", d.table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(d.api)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)}, tableActiveTimeout); err != nil {
		return fmt.Errorf("wait for table %s: %w", d.table, err)
	}

	_, err = d.api.UpdateTimeToLive(ctx, &dynamodb.UpdateTimeToLiveInput{
		TableName: aws.String(d.table),
		TimeToLiveSpecification: &types.TimeToLiveSpecification{
			AttributeName: aws.String("expires_at"),
			Enabled:       aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("enable ttl on %s: %w", d.table, err)
	}

	return nil
}

func (d *DynamoStore) TryCreate(ctx context.Context, m *shortener.Mapping) (bool, error) {
	item, err := attributevalue.MarshalMap(toRecord(m))
	if err != nil {
		return false, fmt.Errorf("marshal mapping: %w", err)
	}

	_, err = d.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(d.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#code) OR #exp < :now"),
		ExpressionAttributeNames: map[string]string{
			"#code": "code",
			"#exp":  "expires_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": &types.AttributeValueMemberN{Value: epochDecimal(m.CreatedAt)},
		},
	})
	if err != nil {
		var conflict *types.ConditionalCheckFailedException
		if errors.As(err, &conflict) {
			return false, nil
		}

		return false, fmt.Errorf("put mapping: %w", err)
	}

	return true, nil
}

func (d *DynamoStore) Get(ctx context.Context, code shortener.Code) (*shortener.Mapping, error) {
	out, err := d.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			"code": &types.AttributeValueMemberS{Value: string(code)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get mapping: %w", err)
	}

	if len(out.Item) == 0 {
		return nil, shortener.ErrNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal mapping: %w", err)
	}

	m, err := rec.mapping()
	if err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}

	return m, nil
}

// Ping checks that the table is reachable.
func (d *DynamoStore) Ping(ctx context.Context) error {
	_, err := d.api.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(d.table)})

	return err
}

// epochDecimal renders t as exact decimal epoch seconds, so an item that
// expired earlier in the same second still compares as dead.
func epochDecimal(t time.Time) string {
	if t.Nanosecond() == 0 {
		return strconv.FormatInt(t.Unix(), 10)
	}

	return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond())
}

var _ shortener.Store = (*DynamoStore)(nil)
