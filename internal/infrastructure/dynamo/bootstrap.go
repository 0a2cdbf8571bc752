package dynamo

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

const tableActiveTimeout = 30 * time.Second

// Bootstrap creates all DynamoDB tables if they don't already exist.
// Safe to call on every startup; skips tables that already exist.
func (s *Store) Bootstrap(ctx context.Context) {
	s.createTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.tables.Notifications),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrID), AttributeType: types.ScalarAttributeTypeN},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrID), KeyType: types.KeyTypeHash},
		},
	})

	s.createTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.tables.Performances),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrNotificationID), AttributeType: types.ScalarAttributeTypeN},
			{AttributeName: aws.String(attrDateID), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrNotificationID), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrDateID), KeyType: types.KeyTypeRange},
		},
	})

	s.createTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(s.tables.Counters),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrCounterName), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrCounterName), KeyType: types.KeyTypeHash},
		},
	})
}

func (s *Store) createTable(ctx context.Context, input *dynamodb.CreateTableInput) {
	log := logrus.WithField("table", *input.TableName)
	_, err := s.client.CreateTable(ctx, input)
	if err != nil {
		// ResourceInUseException means the table already exists.
		var riue *types.ResourceInUseException
		if !errors.As(err, &riue) {
			log.WithError(err).Warn("could not create table")
		}
		return
	}

	waiter := dynamodb.NewTableExistsWaiter(s.client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: input.TableName}, tableActiveTimeout); err != nil {
		log.WithError(err).Warn("table did not become active")
		return
	}
	log.Info("created table")
}
