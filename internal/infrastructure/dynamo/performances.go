package dynamo

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/notifperf-api/internal/domain"
	"github.com/sirupsen/logrus"
)

const (
	// batchWriteLimit is the DynamoDB maximum number of requests per BatchWriteItem.
	batchWriteLimit = 25
	// maxUnprocessedRetries bounds the resubmission of throttled batch items.
	maxUnprocessedRetries = 5
	// dateIDUpperBound sorts after every "#<id>" suffix of a given date.
	dateIDUpperBound = "#~"
)

// performanceItem is the stored shape of a performance record. The sort key
// combines date and record id so that repeated generations never overwrite
// each other and date ranges stay a single key condition.
type performanceItem struct {
	NotificationID int64  `dynamodbav:"notification_id"`
	DateID         string `dynamodbav:"date_id"`
	ID             int64  `dynamodbav:"id"`
	Date           string `dynamodbav:"date"`
	Impressions    int    `dynamodbav:"impressions"`
	Clicks         int    `dynamodbav:"clicks"`
	Conversions    int    `dynamodbav:"conversions"`
	CTR            string `dynamodbav:"ctr"`
	CVR            string `dynamodbav:"cvr"`
}

func dateID(date domain.Date, id int64) string {
	return fmt.Sprintf("%s#%020d", date, id)
}

func newPerformanceItem(p domain.NotificationPerformance) performanceItem {
	return performanceItem{
		NotificationID: p.Notification.ID,
		DateID:         dateID(p.Date, p.ID),
		ID:             p.ID,
		Date:           p.Date.String(),
		Impressions:    p.Impressions,
		Clicks:         p.Clicks,
		Conversions:    p.Conversions,
		CTR:            p.CTR.String(),
		CVR:            p.CVR.String(),
	}
}

func (it performanceItem) toDomain(n domain.Notification) (domain.NotificationPerformance, error) {
	date, err := domain.ParseDate(it.Date)
	if err != nil {
		return domain.NotificationPerformance{}, err
	}
	p := domain.NotificationPerformance{
		ID:           it.ID,
		Notification: n,
		Date:         date,
		Impressions:  it.Impressions,
		Clicks:       it.Clicks,
		Conversions:  it.Conversions,
	}
	if err := p.CTR.Scan(it.CTR); err != nil {
		return domain.NotificationPerformance{}, fmt.Errorf("ctr: %w", err)
	}
	if err := p.CVR.Scan(it.CVR); err != nil {
		return domain.NotificationPerformance{}, fmt.Errorf("cvr: %w", err)
	}
	return p, nil
}

// PerformanceRepo provides typed DynamoDB operations for the performance table.
type PerformanceRepo struct {
	store         *Store
	notifications *NotificationRepo
}

func NewPerformanceRepo(store *Store) *PerformanceRepo {
	return &PerformanceRepo{store: store, notifications: NewNotificationRepo(store)}
}

// SaveAll reserves a block of record ids and writes the records in chunks of
// 25. Chunks are written independently; a failure part way leaves the earlier
// chunks in place.
func (r *PerformanceRepo) SaveAll(ctx context.Context, records []domain.NotificationPerformance) error {
	if len(records) == 0 {
		return nil
	}
	first, err := r.store.reserveIDs(ctx, counterPerformances, len(records))
	if err != nil {
		return err
	}

	requests := make([]types.WriteRequest, 0, len(records))
	for i, p := range records {
		p.ID = first + int64(i)
		item, err := attributevalue.MarshalMap(newPerformanceItem(p))
		if err != nil {
			return fmt.Errorf("marshal performance: %w", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return r.store.batchWrite(ctx, r.store.tables.Performances, requests)
}

func (r *PerformanceRepo) FindByDateRange(ctx context.Context, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	notifications, err := r.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	records := []domain.NotificationPerformance{}
	for _, n := range notifications {
		page, err := r.queryPartition(ctx, n, start, end)
		if err != nil {
			return nil, err
		}
		records = append(records, page...)
	}
	return records, nil
}

func (r *PerformanceRepo) FindByNotificationAndDateRange(ctx context.Context, notificationID int64, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	n, err := r.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	return r.queryPartition(ctx, *n, start, end)
}

// SummarizeByDateRange totals the counters of each notification with at least
// one record in range. CTR and CVR are left for the caller.
func (r *PerformanceRepo) SummarizeByDateRange(ctx context.Context, start, end domain.Date) ([]domain.PerformanceSummary, error) {
	notifications, err := r.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := []domain.PerformanceSummary{}
	for _, n := range notifications {
		records, err := r.queryPartition(ctx, n, start, end)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		s := domain.PerformanceSummary{NotificationID: n.ID, NotificationName: n.Name, Days: len(records)}
		for _, p := range records {
			s.Impressions += int64(p.Impressions)
			s.Clicks += int64(p.Clicks)
			s.Conversions += int64(p.Conversions)
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// queryPartition reads one notification's records in [start, end], ordered by id.
func (r *PerformanceRepo) queryPartition(ctx context.Context, n domain.Notification, start, end domain.Date) ([]domain.NotificationPerformance, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.store.tables.Performances),
		KeyConditionExpression: aws.String("#pk = :nid AND #sk BETWEEN :from AND :to"),
		ExpressionAttributeNames: map[string]string{
			"#pk": attrNotificationID,
			"#sk": attrDateID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":nid":  &types.AttributeValueMemberN{Value: strconv.FormatInt(n.ID, 10)},
			":from": &types.AttributeValueMemberS{Value: start.String()},
			":to":   &types.AttributeValueMemberS{Value: end.String() + dateIDUpperBound},
		},
	}

	records := []domain.NotificationPerformance{}
	for {
		out, err := r.store.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("query performances of notification %d: %w", n.ID, err)
		}
		var items []performanceItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
			return nil, fmt.Errorf("unmarshal performances: %w", err)
		}
		for _, it := range items {
			p, err := it.toDomain(n)
			if err != nil {
				return nil, fmt.Errorf("decode performance %d: %w", it.ID, err)
			}
			records = append(records, p)
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// deletePerformances removes every performance item of a notification.
func (s *Store) deletePerformances(ctx context.Context, notificationID int64) error {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tables.Performances),
		KeyConditionExpression: aws.String("#pk = :nid"),
		ProjectionExpression:   aws.String("#pk, #sk"),
		ExpressionAttributeNames: map[string]string{
			"#pk": attrNotificationID,
			"#sk": attrDateID,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":nid": &types.AttributeValueMemberN{Value: strconv.FormatInt(notificationID, 10)},
		},
	}

	var requests []types.WriteRequest
	for {
		out, err := s.client.Query(ctx, input)
		if err != nil {
			return fmt.Errorf("query performances of notification %d: %w", notificationID, err)
		}
		for _, item := range out.Items {
			requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: item}})
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
	return s.batchWrite(ctx, s.tables.Performances, requests)
}

// batchWrite sends requests in chunks of batchWriteLimit, resubmitting
// unprocessed items with a short linear backoff.
func (s *Store) batchWrite(ctx context.Context, table string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchWriteLimit {
		end := min(start+batchWriteLimit, len(requests))
		pending := map[string][]types.WriteRequest{table: requests[start:end]}

		for attempt := 0; len(pending[table]) > 0; attempt++ {
			if attempt > maxUnprocessedRetries {
				return fmt.Errorf("batch write %s: %d items left unprocessed", table, len(pending[table]))
			}
			if attempt > 0 {
				logrus.WithFields(logrus.Fields{"table": table, "unprocessed": len(pending[table]), "attempt": attempt}).
					Warn("retrying unprocessed batch items")
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(time.Duration(attempt) * 50 * time.Millisecond):
				}
			}
			out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch write %s: %w", table, err)
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}
