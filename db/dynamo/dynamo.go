// Package dynamo implements the relay channel registry on a DynamoDB table
// keyed by guild_id.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"relaybot/db"
)

const (
	attrGuildID   = "guild_id"
	attrChannelID = "channel_id"
)

// dynamodbAPI is the subset of *dynamodb.Client used by Client.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type Client struct {
	api       dynamodbAPI
	tableName string
}

var (
	_ db.Registry = (*Client)(nil)
	_ db.Lister   = (*Client)(nil)
)

func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("dynamo: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("dynamo: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName}, nil
}

func (c *Client) RelayChannel(ctx context.Context, guildID string) (string, error) {
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			attrGuildID: &types.AttributeValueMemberS{Value: guildID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", errors.Join(db.ErrInternal, fmt.Errorf("dynamo: get item: %w", err))
	}
	if out == nil || len(out.Item) == 0 {
		return "", errors.Join(db.ErrNotFound, fmt.Errorf("No relay channel for guild %s", guildID))
	}

	channelID, err := stringAttr(out.Item, attrChannelID)
	if err != nil {
		return "", errors.Join(db.ErrInternal, err)
	}
	return channelID, nil
}

// SetRelayChannel relies on PutItem replacing the whole item of the key.
func (c *Client) SetRelayChannel(ctx context.Context, guildID, channelID string) error {
	if guildID == "" || channelID == "" {
		return db.ErrEmptyArguments
	}

	_, err := c.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			attrGuildID:   &types.AttributeValueMemberS{Value: guildID},
			attrChannelID: &types.AttributeValueMemberS{Value: channelID},
		},
	})
	if err != nil {
		return errors.Join(db.ErrInternal, fmt.Errorf("dynamo: put item: %w", err))
	}
	return nil
}

func (c *Client) List(ctx context.Context) ([]db.RelayConfig, error) {
	cs := []db.RelayConfig{}

	var start map[string]types.AttributeValue
	for {
		out, err := c.api.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(c.tableName),
			ExclusiveStartKey: start,
		})
		if err != nil {
			return cs, errors.Join(db.ErrInternal, fmt.Errorf("dynamo: scan: %w", err))
		}

		for _, item := range out.Items {
			g, err := stringAttr(item, attrGuildID)
			if err != nil {
				return cs, errors.Join(db.ErrInternal, err)
			}
			ch, err := stringAttr(item, attrChannelID)
			if err != nil {
				return cs, errors.Join(db.ErrInternal, err)
			}
			cs = append(cs, db.RelayConfig{GuildID: g, ChannelID: ch})
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		start = out.LastEvaluatedKey
	}

	sort.Slice(cs, func(i, j int) bool { return cs[i].GuildID < cs[j].GuildID })
	return cs, nil
}

func stringAttr(item map[string]types.AttributeValue, name string) (string, error) {
	v, ok := item[name].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("dynamo: attribute %q missing or not a string", name)
	}
	return v.Value, nil
}
