package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	// List returns orders newest first.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	AttachPaymentOrder(ctx context.Context, id, paymentOrderID string, amount int64, at time.Time) error
	// MarkPaid flags the order linked to paymentOrderID. ErrNotFound if none is linked.
	MarkPaid(ctx context.Context, paymentOrderID, paymentID string, at time.Time) error
}

type mongoOrderRepository struct {
	coll *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{coll: db.Collection(OrdersCollection)}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	if _, err := r.coll.InsertOne(ctx, newOrderDocument(order)); err != nil {
		return fmt.Errorf("mongoOrderRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "id", Value: id}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoOrderRepository.FindByID: %w", err)
	}
	return doc.toModel(), nil
}

func (r *mongoOrderRepository) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	query := bson.D{}
	if filter.UserID != "" {
		query = append(query, bson.E{Key: "user_id", Value: filter.UserID})
	}
	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: filter.Status})
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(listLimit)
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongoOrderRepository.List: %w", err)
	}
	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongoOrderRepository.List: decode: %w", err)
	}

	orders := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		orders = append(orders, *d.toModel())
	}
	return orders, nil
}

func (r *mongoOrderRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	return r.updateOne(ctx, bson.D{{Key: "id", Value: id}}, bson.D{
		{Key: "status", Value: status},
		{Key: "updated_at", Value: formatTime(at)},
	}, "UpdateStatus")
}

func (r *mongoOrderRepository) AttachPaymentOrder(ctx context.Context, id, paymentOrderID string, amount int64, at time.Time) error {
	return r.updateOne(ctx, bson.D{{Key: "id", Value: id}}, bson.D{
		{Key: "payment_order_id", Value: paymentOrderID},
		{Key: "payment_status", Value: model.PaymentStatusCreated},
		{Key: "payment_amount", Value: amount},
		{Key: "updated_at", Value: formatTime(at)},
	}, "AttachPaymentOrder")
}

func (r *mongoOrderRepository) MarkPaid(ctx context.Context, paymentOrderID, paymentID string, at time.Time) error {
	return r.updateOne(ctx, bson.D{{Key: "payment_order_id", Value: paymentOrderID}}, bson.D{
		{Key: "payment_id", Value: paymentID},
		{Key: "payment_status", Value: model.PaymentStatusPaid},
		{Key: "updated_at", Value: formatTime(at)},
	}, "MarkPaid")
}

func (r *mongoOrderRepository) updateOne(ctx context.Context, filter, set bson.D, op string) error {
	res, err := r.coll.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("mongoOrderRepository.%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}
