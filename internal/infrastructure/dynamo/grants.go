package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-access-gate/internal/domain"
)

// API is the subset of the DynamoDB client the repositories use.
type API interface {
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// GrantRepo is the ledger of issued grants.
// PK: grant_id
type GrantRepo struct {
	client    API
	tableName string
}

func NewGrantRepo(client API, tableName string) *GrantRepo {
	return &GrantRepo{client: client, tableName: tableName}
}

// Put stores a new grant. Grant ids are never reused.
func (r *GrantRepo) Put(ctx context.Context, g *domain.Grant) error {
	item, err := attributevalue.MarshalMap(g)
	if err != nil {
		return fmt.Errorf("marshal grant: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(" + fieldGrantID + ")"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("grant %s exists: %w", g.GrantID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *GrantRepo) Get(ctx context.Context, grantID string) (*domain.Grant, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldGrantID, grantID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("grant not found: %w", domain.ErrNotFound)
	}
	var g domain.Grant
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// MarkRedeemed sets redeemed_at exactly once. A second call yields ErrConflict,
// an unknown grant ErrNotFound.
func (r *GrantRepo) MarkRedeemed(ctx context.Context, grantID string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{fieldRedeemedAt: at.UTC()})
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tableName),
		Key:                                 strKey(fieldGrantID, grantID),
		UpdateExpression:                    aws.String(ue.Expr),
		ConditionExpression:                 aws.String("attribute_exists(" + fieldGrantID + ") AND attribute_not_exists(" + fieldRedeemedAt + ")"),
		ExpressionAttributeNames:            ue.Names,
		ExpressionAttributeValues:           ue.Values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err == nil {
		return nil
	}
	var ccf *types.ConditionalCheckFailedException
	if !errors.As(err, &ccf) {
		return err
	}
	if len(ccf.Item) == 0 {
		return fmt.Errorf("grant not found: %w", domain.ErrNotFound)
	}
	return fmt.Errorf("grant already redeemed: %w", domain.ErrConflict)
}
