package repositories

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"gopkg.in/yaml.v3"
)

type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// DynamoDBAliasTable looks aliases up in a table keyed by listener_type and author.
type DynamoDBAliasTable struct {
	client    DynamoDBAPI
	tableName string
}

func NewDynamoDBAliasTable(client DynamoDBAPI, tableName string) *DynamoDBAliasTable {
	return &DynamoDBAliasTable{
		client:    client,
		tableName: tableName,
	}
}

func (d *DynamoDBAliasTable) Lookup(ctx context.Context, listenerType, author string) (string, bool, error) {
	if d.tableName == "" {
		return "", false, nil
	}

	out, err := d.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.tableName),
		Key: map[string]types.AttributeValue{
			"listener_type": &types.AttributeValueMemberS{Value: listenerType},
			"author":        &types.AttributeValueMemberS{Value: author},
		},
		ProjectionExpression: aws.String("alias"),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to get alias in DynamoDB for %s/%s: %w", listenerType, author, err)
	}

	attr, ok := out.Item["alias"].(*types.AttributeValueMemberS)
	if !ok || attr.Value == "" {
		return "", false, nil
	}
	return attr.Value, true, nil
}

type aliasDocument struct {
	Aliases map[string]map[string]string `yaml:"aliases"`
}

// AliasRepository resolves site author names to booru artist names, first
// from the static table and then from DynamoDB when configured.
type AliasRepository struct {
	table  map[string]map[string]string
	dynamo *DynamoDBAliasTable
}

type AliasOption func(*AliasRepository)

func WithAliasTable(data []byte) (AliasOption, error) {
	var doc aliasDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid alias document: %w", err)
	}
	return func(r *AliasRepository) { r.table = doc.Aliases }, nil
}

func WithDynamoDB(table *DynamoDBAliasTable) AliasOption {
	return func(r *AliasRepository) { r.dynamo = table }
}

func NewAliasRepository(opts ...AliasOption) *AliasRepository {
	r := &AliasRepository{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadAliases builds the repository from an alias document at a local path
// or s3://bucket/key location, backed by table when it is non-nil.
func LoadAliases(ctx context.Context, location string, objects ObjectDownloader, table *DynamoDBAliasTable) (*AliasRepository, error) {
	var opts []AliasOption
	data, err := readDocument(ctx, location, objects)
	if err != nil {
		return nil, err
	}
	if data != nil {
		opt, err := WithAliasTable(data)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	if table != nil {
		opts = append(opts, WithDynamoDB(table))
	}
	return NewAliasRepository(opts...), nil
}

// Resolve returns the alias for author; ok is false when none is known or
// the lookup failed.
func (r *AliasRepository) Resolve(ctx context.Context, listenerType, author string) (string, bool) {
	if alias, ok := r.table[listenerType][author]; ok && alias != "" {
		return alias, true
	}
	if r.dynamo == nil {
		return "", false
	}

	alias, ok, err := r.dynamo.Lookup(ctx, listenerType, author)
	if err != nil {
		log.Printf("Alias lookup unavailable, using raw author: %v", err)
		return "", false
	}
	return alias, ok
}
