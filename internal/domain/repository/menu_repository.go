package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MenuRepository interface {
	Create(ctx context.Context, item *model.MenuItem) error
	FindByID(ctx context.Context, id string) (*model.MenuItem, error)
	FindBySlug(ctx context.Context, slug string) (*model.MenuItem, error)
	List(ctx context.Context, filter model.MenuFilter) ([]model.MenuItem, error)
	// Update applies patch and returns the stored item after the change.
	Update(ctx context.Context, id string, patch model.MenuItemPatch) (*model.MenuItem, error)
	Delete(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]string, error)
}

type mongoMenuRepository struct {
	coll *mongo.Collection
}

func NewMongoMenuRepository(db *mongo.Database) MenuRepository {
	return &mongoMenuRepository{coll: db.Collection(MenuItemsCollection)}
}

func (r *mongoMenuRepository) Create(ctx context.Context, item *model.MenuItem) error {
	_, err := r.coll.InsertOne(ctx, newMenuItemDocument(item))
	return writeError(err, ErrSlugTaken, "mongoMenuRepository.Create")
}

func (r *mongoMenuRepository) FindByID(ctx context.Context, id string) (*model.MenuItem, error) {
	return r.findOne(ctx, bson.D{{Key: "id", Value: id}}, "FindByID")
}

func (r *mongoMenuRepository) FindBySlug(ctx context.Context, slug string) (*model.MenuItem, error) {
	return r.findOne(ctx, bson.D{{Key: "slug", Value: slug}}, "FindBySlug")
}

func (r *mongoMenuRepository) findOne(ctx context.Context, filter bson.D, op string) (*model.MenuItem, error) {
	var doc menuItemDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoMenuRepository.%s: %w", op, err)
	}
	return doc.toModel(), nil
}

func (r *mongoMenuRepository) List(ctx context.Context, filter model.MenuFilter) ([]model.MenuItem, error) {
	query := bson.D{}
	if filter.AvailableOnly {
		query = append(query, bson.E{Key: "available", Value: true})
	}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: filter.Category})
	}

	cursor, err := r.coll.Find(ctx, query, options.Find().SetLimit(listLimit))
	if err != nil {
		return nil, fmt.Errorf("mongoMenuRepository.List: %w", err)
	}
	var docs []menuItemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongoMenuRepository.List: decode: %w", err)
	}

	items := make([]model.MenuItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, *d.toModel())
	}
	return items, nil
}

func (r *mongoMenuRepository) Update(ctx context.Context, id string, patch model.MenuItemPatch) (*model.MenuItem, error) {
	set := patchToSet(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc menuItemDocument
	err := r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "id", Value: id}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, writeError(err, ErrSlugTaken, "mongoMenuRepository.Update")
	}
	return doc.toModel(), nil
}

func patchToSet(p model.MenuItemPatch) bson.D {
	set := bson.D{}
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Slug != nil {
		set = append(set, bson.E{Key: "slug", Value: *p.Slug})
	}
	if p.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *p.Description})
	}
	if p.Price != nil {
		set = append(set, bson.E{Key: "price", Value: *p.Price})
	}
	if p.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *p.Category})
	}
	if p.ImageURL != nil {
		set = append(set, bson.E{Key: "image_url", Value: *p.ImageURL})
	}
	if p.Ingredients != nil {
		set = append(set, bson.E{Key: "ingredients", Value: p.Ingredients})
	}
	if p.Calories != nil {
		set = append(set, bson.E{Key: "calories", Value: *p.Calories})
	}
	if p.Available != nil {
		set = append(set, bson.E{Key: "available", Value: *p.Available})
	}
	return set
}

func (r *mongoMenuRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongoMenuRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoMenuRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "category", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongoMenuRepository.Categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
