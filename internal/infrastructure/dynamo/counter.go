package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Counter names in the counters table.
const (
	counterNotifications = "notifications"
	counterPerformances  = "notification_performances"
)

// reserveIDs atomically advances the named counter by n and returns the first
// id of the reserved block [first, first+n).
func (s *Store) reserveIDs(ctx context.Context, counter string, n int) (int64, error) {
	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.tables.Counters),
		Key:                      map[string]types.AttributeValue{attrCounterName: &types.AttributeValueMemberS{Value: counter}},
		UpdateExpression:         aws.String("ADD #v :n"),
		ExpressionAttributeNames: map[string]string{"#v": attrCounterValue},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":n": &types.AttributeValueMemberN{Value: strconv.Itoa(n)},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("advance counter %s: %w", counter, err)
	}
	v, ok := out.Attributes[attrCounterValue].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("counter %s: missing value in response", counter)
	}
	last, err := strconv.ParseInt(v.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter %s: %w", counter, err)
	}
	return last - int64(n) + 1, nil
}
