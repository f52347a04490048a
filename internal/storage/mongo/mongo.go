// Package mongo implements the record store on MongoDB, the document
// database the dashboard was originally backed by. Filter translation
// mirrors storage.Query.Matches: one match document is built per query and
// reused for find, count and the summary aggregation.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/core"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/storage"
)

const (
	recordsCollection = "FinancialRecord"
	orgsCollection    = "Organization"
)

type Store struct {
	client  *mongo.Client
	records *mongo.Collection
	orgs    *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

type recordDoc struct {
	ID              string     `bson:"_id"`
	Type            string     `bson:"type"`
	Category        string     `bson:"category"`
	AmountCents     int64      `bson:"amountCents"`
	Description     string     `bson:"description"`
	TransactionDate time.Time  `bson:"transactionDate"`
	ReceiptNo       string     `bson:"receiptNo,omitempty"`
	PaymentMethod   string     `bson:"paymentMethod,omitempty"`
	Vendor          string     `bson:"vendor,omitempty"`
	Reference       string     `bson:"reference,omitempty"`
	OrganizationID  string     `bson:"organizationId"`
	AdminID         string     `bson:"adminId"`
	CreatedAt       time.Time  `bson:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt"`
}

func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(dbName)
	return &Store{
		client:  client,
		records: db.Collection(recordsCollection),
		orgs:    db.Collection(orgsCollection),
	}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// match builds the filter document shared by find, count and aggregation.
func match(q storage.Query) bson.M {
	m := bson.M{}

	if q.OrgID != "" {
		m["organizationId"] = q.OrgID
	}
	switch q.Type.Normalize() {
	case core.Income:
		m["type"] = string(core.Income)
	case core.Expense:
		m["type"] = bson.M{"$in": []string{string(core.Expense), string(core.Purchase)}}
	}
	if q.Category != "" {
		m["category"] = q.Category
	}
	if q.DateFrom != nil || q.DateTo != nil {
		dates := bson.M{}
		if q.DateFrom != nil {
			dates["$gte"] = q.DateFrom.UTC()
		}
		if q.DateTo != nil {
			dates["$lte"] = q.DateTo.UTC()
		}
		m["transactionDate"] = dates
	}
	if q.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		m["$or"] = bson.A{
			bson.M{"description": rx},
			bson.M{"vendor": rx},
			bson.M{"receiptNo": rx},
			bson.M{"reference": rx},
		}
	}
	return m
}

var listSort = bson.D{
	{Key: "transactionDate", Value: -1},
	{Key: "createdAt", Value: -1},
	{Key: "_id", Value: -1},
}

func (s *Store) List(ctx context.Context, q storage.Query, page storage.Page) ([]core.FinancialRecord, error) {
	opts := options.Find().SetSort(listSort)
	if page.Size > 0 {
		opts.SetSkip(int64(page.Offset())).SetLimit(int64(page.Size))
	}

	cur, err := s.records.Find(ctx, match(q), opts)
	if err != nil {
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer cur.Close(ctx)

	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	recs := make([]core.FinancialRecord, len(docs))
	for i, d := range docs {
		recs[i] = d.toRecord()
	}
	if err := s.attachOrgNames(ctx, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) Count(ctx context.Context, q storage.Query) (int64, error) {
	n, err := s.records.CountDocuments(ctx, match(q))
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

func (s *Store) Summarize(ctx context.Context, q storage.Query) ([]core.TypeTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match(q)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amountCents"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := s.records.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate summary: %w", err)
	}
	defer cur.Close(ctx)

	var buckets []struct {
		Type  string `bson:"_id"`
		Total int64  `bson:"total"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &buckets); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}

	totals := make([]core.TypeTotal, len(buckets))
	for i, b := range buckets {
		totals[i] = core.TypeTotal{
			Type:       core.RecordType(b.Type),
			TotalCents: b.Total,
			Count:      b.Count,
		}
	}
	return totals, nil
}

func (s *Store) Get(ctx context.Context, id, orgID string) (*core.FinancialRecord, error) {
	filter := bson.M{"_id": id}
	if orgID != "" {
		filter["organizationId"] = orgID
	}

	var doc recordDoc
	err := s.records.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}

	rec := doc.toRecord()
	recs := []core.FinancialRecord{rec}
	if err := s.attachOrgNames(ctx, recs); err != nil {
		return nil, err
	}
	return &recs[0], nil
}

func (s *Store) Insert(ctx context.Context, rec core.FinancialRecord) (string, error) {
	doc := fromRecord(rec)
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.records.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	slog.InfoContext(ctx, "Record saved to MongoDB",
		"id", doc.ID,
		"type", doc.Type,
		"amount_cents", doc.AmountCents,
		"organization_id", doc.OrganizationID)
	return doc.ID, nil
}

func (s *Store) InsertMany(ctx context.Context, recs []core.FinancialRecord) ([]string, error) {
	now := time.Now().UTC()
	docs := make([]any, len(recs))
	ids := make([]string, len(recs))
	for i, rec := range recs {
		doc := fromRecord(rec)
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		doc.CreatedAt = now
		doc.UpdatedAt = now
		docs[i] = doc
		ids[i] = doc.ID
	}

	if _, err := s.records.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("insert records: %w", err)
	}
	return ids, nil
}

func (s *Store) Update(ctx context.Context, id, orgID string, rec core.FinancialRecord) error {
	filter := bson.M{"_id": id}
	if orgID != "" {
		filter["organizationId"] = orgID
	}

	res, err := s.records.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"type":            string(rec.Type),
		"category":        rec.Category,
		"amountCents":     rec.Amount.Cents,
		"description":     rec.Description,
		"transactionDate": rec.TransactionDate.UTC(),
		"receiptNo":       rec.ReceiptNo,
		"paymentMethod":   rec.PaymentMethod,
		"vendor":          rec.Vendor,
		"reference":       rec.Reference,
		"updatedAt":       time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteMany resolves which of the given ids are actually in scope before
// deleting, so the returned ids match the documents removed.
func (s *Store) DeleteMany(ctx context.Context, ids []string, orgID string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if orgID != "" {
		filter["organizationId"] = orgID
	}

	cur, err := s.records.Find(ctx, filter,
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("resolve records to delete: %w", err)
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("resolve records to delete: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	deleted := make([]string, 0, len(docs))
	for _, d := range docs {
		deleted = append(deleted, d.ID)
	}

	if _, err := s.records.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": deleted}}); err != nil {
		return nil, fmt.Errorf("delete records: %w", err)
	}
	return deleted, nil
}

func (s *Store) NormalizeLegacyTypes(ctx context.Context) (int64, error) {
	res, err := s.records.UpdateMany(ctx,
		bson.M{"type": string(core.Purchase)},
		bson.M{"$set": bson.M{"type": string(core.Expense)}})
	if err != nil {
		return 0, fmt.Errorf("normalize legacy types: %w", err)
	}
	if res.ModifiedCount > 0 {
		slog.InfoContext(ctx, "Migrated legacy PURCHASE records", "count", res.ModifiedCount)
	}
	return res.ModifiedCount, nil
}

// attachOrgNames resolves organization names for display in one round trip.
func (s *Store) attachOrgNames(ctx context.Context, recs []core.FinancialRecord) error {
	idSet := make(map[string]struct{})
	for _, r := range recs {
		if r.OrganizationID != "" {
			idSet[r.OrganizationID] = struct{}{}
		}
	}
	if len(idSet) == 0 {
		return nil
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	cur, err := s.orgs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("find organizations: %w", err)
	}
	defer cur.Close(ctx)

	var orgs []struct {
		ID   string `bson:"_id"`
		Name string `bson:"name"`
	}
	if err := cur.All(ctx, &orgs); err != nil {
		return fmt.Errorf("decode organizations: %w", err)
	}

	names := make(map[string]string, len(orgs))
	for _, o := range orgs {
		names[o.ID] = o.Name
	}
	for i := range recs {
		recs[i].OrganizationName = names[recs[i].OrganizationID]
	}
	return nil
}

func (d recordDoc) toRecord() core.FinancialRecord {
	return core.FinancialRecord{
		ID:              d.ID,
		Type:            core.RecordType(d.Type),
		Category:        d.Category,
		Amount:          core.Money{Cents: d.AmountCents},
		Description:     d.Description,
		TransactionDate: d.TransactionDate.UTC(),
		ReceiptNo:       d.ReceiptNo,
		PaymentMethod:   d.PaymentMethod,
		Vendor:          d.Vendor,
		Reference:       d.Reference,
		OrganizationID:  d.OrganizationID,
		AdminID:         d.AdminID,
		CreatedAt:       d.CreatedAt.UTC(),
		UpdatedAt:       d.UpdatedAt.UTC(),
	}
}

func fromRecord(r core.FinancialRecord) recordDoc {
	return recordDoc{
		ID:              r.ID,
		Type:            string(r.Type),
		Category:        r.Category,
		AmountCents:     r.Amount.Cents,
		Description:     r.Description,
		TransactionDate: r.TransactionDate.UTC(),
		ReceiptNo:       r.ReceiptNo,
		PaymentMethod:   r.PaymentMethod,
		Vendor:          r.Vendor,
		Reference:       r.Reference,
		OrganizationID:  r.OrganizationID,
		AdminID:         r.AdminID,
	}
}
