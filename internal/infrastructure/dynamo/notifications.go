package dynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/notifperf-api/internal/domain"
)

// NotificationRepo provides typed DynamoDB operations for the notifications table.
type NotificationRepo struct {
	store *Store
}

func NewNotificationRepo(store *Store) *NotificationRepo {
	return &NotificationRepo{store: store}
}

// List scans the whole table and returns the notifications ordered by id.
func (r *NotificationRepo) List(ctx context.Context) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	input := &dynamodb.ScanInput{TableName: aws.String(r.store.tables.Notifications)}
	for {
		out, err := r.store.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan notifications: %w", err)
		}
		var page []domain.Notification
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal notifications: %w", err)
		}
		notifications = append(notifications, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID < notifications[j].ID })
	return notifications, nil
}

func (r *NotificationRepo) Get(ctx context.Context, id int64) (*domain.Notification, error) {
	out, err := r.store.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.store.tables.Notifications),
		Key:            numKey(attrID, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	var n domain.Notification
	if err := attributevalue.UnmarshalMap(out.Item, &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification: %w", err)
	}
	return &n, nil
}

// Create takes the next id from the notifications counter and stores n under it.
func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	id, err := r.store.reserveIDs(ctx, counterNotifications, 1)
	if err != nil {
		return err
	}
	n.ID = id

	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	_, err = r.store.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.store.tables.Notifications),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": attrID},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("notification %d: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("put notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) Update(ctx context.Context, n *domain.Notification) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		attrName:         n.Name,
		attrMessage:      n.Message,
		attrLastModified: n.LastModificationDate,
	})
	if err != nil {
		return err
	}
	ue.Names["#pk"] = attrID
	_, err = r.store.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.store.tables.Notifications),
		Key:                       numKey(attrID, n.ID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("notification %d: %w", n.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update notification: %w", err)
	}
	return nil
}

// Delete removes the notification and then every performance item in its
// partition. The two steps are not transactional.
func (r *NotificationRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.store.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.store.tables.Notifications),
		Key:                      numKey(attrID, id),
		ConditionExpression:      aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": attrID},
	})
	if err != nil {
		if isConditionFailed(err) {
			return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("delete notification: %w", err)
	}
	return r.store.deletePerformances(ctx, id)
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}
