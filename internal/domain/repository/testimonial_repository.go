package repository

import (
	"context"
	"fmt"

	"cocoa_backend/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TestimonialRepository interface {
	Create(ctx context.Context, t *model.Testimonial) error
	// List returns the latest testimonials, newest first.
	List(ctx context.Context) ([]model.Testimonial, error)
}

type mongoTestimonialRepository struct {
	coll *mongo.Collection
}

func NewMongoTestimonialRepository(db *mongo.Database) TestimonialRepository {
	return &mongoTestimonialRepository{coll: db.Collection(TestimonialsCollection)}
}

func (r *mongoTestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	if _, err := r.coll.InsertOne(ctx, newTestimonialDocument(t)); err != nil {
		return fmt.Errorf("mongoTestimonialRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoTestimonialRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(testimonialListLimit)
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongoTestimonialRepository.List: %w", err)
	}
	var docs []testimonialDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongoTestimonialRepository.List: decode: %w", err)
	}

	out := make([]model.Testimonial, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toModel())
	}
	return out, nil
}
