package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStoredTimeIsSortableString(t *testing.T) {
	early := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	late := early.Add(1500 * time.Microsecond)

	a, b := formatTime(early), formatTime(late)
	assert.Equal(t, "2026-01-02T03:04:05.000000+00:00", a)
	assert.Less(t, a, b)
	assert.Equal(t, late, parseTime(b))
}

func TestParseTimeAcceptsLegacyFormats(t *testing.T) {
	want := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, want, parseTime("2025-06-01T10:00:00+00:00"))
	assert.Equal(t, want, parseTime("2025-06-01T10:00:00Z"))
	assert.Equal(t, want, parseTime("2025-06-01T15:30:00+05:30"))
	assert.True(t, parseTime("not a time").IsZero())
	assert.True(t, parseTime("").IsZero())
}

func TestUserDocumentKeepsHashUnderPasswordField(t *testing.T) {
	u := &model.User{ID: "u1", Email: "a@x.com", Name: "A", Role: model.RoleCustomer, HashedPassword: "$2a$10$hash"}
	doc := newUserDocument(u)
	assert.Equal(t, "$2a$10$hash", doc.Password)
	assert.Equal(t, u.HashedPassword, doc.toModel().HashedPassword)
}

func TestMemoryUsersEmailUnique(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryStore().Users()

	require.NoError(t, users.Create(ctx, &model.User{ID: "u1", Email: "a@x.com"}))
	err := users.Create(ctx, &model.User{ID: "u2", Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	got, err := users.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMemoryMenuListAndCategories(t *testing.T) {
	ctx := context.Background()
	menu := NewMemoryStore().Menu()
	now := time.Now()

	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "1", Slug: "mocha", Category: "coffee", Available: true, CreatedAt: now}))
	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "2", Category: "tea", Available: false, CreatedAt: now.Add(time.Second)}))
	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "3", Category: "coffee", Available: true, CreatedAt: now.Add(2 * time.Second)}))

	items, err := menu.List(ctx, model.MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = menu.List(ctx, model.MenuFilter{AvailableOnly: true, Category: "tea"})
	require.NoError(t, err)
	assert.Empty(t, items)

	cats, err := menu.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"coffee", "tea"}, cats)

	bySlug, err := menu.FindBySlug(ctx, "mocha")
	require.NoError(t, err)
	assert.Equal(t, "1", bySlug.ID)
}

func TestMemoryMenuUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	menu := NewMemoryStore().Menu()
	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "1", Name: "Mocha", Price: 4.5, Available: true}))

	price := 5.25
	available := false
	updated, err := menu.Update(ctx, "1", model.MenuItemPatch{Price: &price, Available: &available})
	require.NoError(t, err)
	assert.Equal(t, "Mocha", updated.Name)
	assert.Equal(t, 5.25, updated.Price)
	assert.False(t, updated.Available)

	_, err = menu.Update(ctx, "missing", model.MenuItemPatch{Price: &price})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, menu.Delete(ctx, "1"))
	assert.ErrorIs(t, menu.Delete(ctx, "1"), common.ErrNotFound)
}

func TestMemoryOrdersNewestFirstAndPayment(t *testing.T) {
	ctx := context.Background()
	orders := NewMemoryStore().Orders()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, orders.Create(ctx, &model.Order{ID: "o1", UserID: "a", Status: "pending", CreatedAt: base}))
	require.NoError(t, orders.Create(ctx, &model.Order{ID: "o2", UserID: "a", Status: "delivered", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, orders.Create(ctx, &model.Order{ID: "o3", UserID: "b", Status: "pending", CreatedAt: base.Add(2 * time.Hour)}))

	mine, err := orders.List(ctx, model.OrderFilter{UserID: "a"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "o2", mine[0].ID)

	pending, err := orders.List(ctx, model.OrderFilter{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	assert.ErrorIs(t, orders.UpdateStatus(ctx, "nope", "ready", base), common.ErrNotFound)

	require.NoError(t, orders.AttachPaymentOrder(ctx, "o1", "order_gw_1", 90000, base))
	assert.ErrorIs(t, orders.MarkPaid(ctx, "order_gw_unknown", "pay_1", base), common.ErrNotFound)
	require.NoError(t, orders.MarkPaid(ctx, "order_gw_1", "pay_1", base.Add(time.Minute)))

	got, err := orders.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	assert.Equal(t, "pay_1", got.PaymentID)
	assert.Equal(t, int64(90000), got.PaymentAmount)
	assert.Equal(t, base.Add(time.Minute), got.UpdatedAt)
}

func TestMemoryMenuSlugUnique(t *testing.T) {
	ctx := context.Background()
	menu := NewMemoryStore().Menu()
	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "1", Slug: "brownie"}))
	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "2"}))
	require.NoError(t, menu.Create(ctx, &model.MenuItem{ID: "3"}), "items without a slug do not collide")

	err := menu.Create(ctx, &model.MenuItem{ID: "4", Slug: "brownie"})
	assert.ErrorIs(t, err, common.ErrConflict)

	taken := "brownie"
	_, err = menu.Update(ctx, "2", model.MenuItemPatch{Slug: &taken})
	assert.ErrorIs(t, err, common.ErrConflict)
	_, err = menu.Update(ctx, "1", model.MenuItemPatch{Slug: &taken})
	assert.NoError(t, err, "an item may keep its own slug")
}

func TestPatchToSet(t *testing.T) {
	name, itemSlug := "Blondie", "blondie"
	price := 3.5
	available := false

	tests := []struct {
		name  string
		patch model.MenuItemPatch
		want  bson.D
	}{
		{"empty", model.MenuItemPatch{}, bson.D{}},
		{"rename", model.MenuItemPatch{Name: &name, Slug: &itemSlug}, bson.D{
			{Key: "name", Value: "Blondie"},
			{Key: "slug", Value: "blondie"},
		}},
		{"zero values are still set", model.MenuItemPatch{Price: &price, Available: &available, Ingredients: []string{}}, bson.D{
			{Key: "price", Value: 3.5},
			{Key: "ingredients", Value: []string{}},
			{Key: "available", Value: false},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, patchToSet(tt.patch))
		})
	}
}

func TestWriteError(t *testing.T) {
	dupKey := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}}}
	validation := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121, Message: "Document failed validation"}}}
	network := errors.New("connection reset")

	assert.NoError(t, writeError(nil, common.ErrEmailTaken, "op"))
	assert.Equal(t, common.ErrEmailTaken, writeError(dupKey, common.ErrEmailTaken, "op"))
	assert.Equal(t, ErrSlugTaken, writeError(dupKey, ErrSlugTaken, "op"))

	err := writeError(validation, common.ErrEmailTaken, "mongoUserRepository.Create")
	assert.NotErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "mongoUserRepository.Create")

	err = writeError(network, common.ErrEmailTaken, "op")
	assert.ErrorIs(t, err, network)
	assert.Equal(t, http.StatusInternalServerError, common.HTTPStatusFromError(err))
}
