package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"cocoa_backend/internal/common"
	"cocoa_backend/internal/domain/model"
)

// MemoryStore keeps every collection in process. It backs STORE_DRIVER=memory
// and the package tests. Values are copied in and out so callers never share
// state with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[string]model.User
	menuItems    map[string]model.MenuItem
	orders       map[string]model.Order
	testimonials []model.Testimonial
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]model.User),
		menuItems: make(map[string]model.MenuItem),
		orders:    make(map[string]model.Order),
	}
}

func (s *MemoryStore) Users() UserRepository               { return memoryUsers{s} }
func (s *MemoryStore) Menu() MenuRepository                { return memoryMenu{s} }
func (s *MemoryStore) Orders() OrderRepository             { return memoryOrders{s} }
func (s *MemoryStore) Testimonials() TestimonialRepository { return memoryTestimonials{s} }

func (s *MemoryStore) Ping(context.Context) error { return nil }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return common.ErrEmailTaken
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memoryUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type memoryMenu struct{ s *MemoryStore }

func cloneMenuItem(m model.MenuItem) model.MenuItem {
	m.Ingredients = append([]string{}, m.Ingredients...)
	return m
}

// slugTaken mirrors the sparse unique index on slug. Caller holds the lock.
func (r memoryMenu) slugTaken(slug, selfID string) bool {
	if slug == "" {
		return false
	}
	for id, m := range r.s.menuItems {
		if id != selfID && m.Slug == slug {
			return true
		}
	}
	return false
}

func (r memoryMenu) Create(_ context.Context, item *model.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.slugTaken(item.Slug, item.ID) {
		return ErrSlugTaken
	}
	r.s.menuItems[item.ID] = cloneMenuItem(*item)
	return nil
}

func (r memoryMenu) FindByID(_ context.Context, id string) (*model.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.menuItems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	m = cloneMenuItem(m)
	return &m, nil
}

func (r memoryMenu) FindBySlug(_ context.Context, slug string) (*model.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.menuItems {
		if m.Slug == slug {
			m = cloneMenuItem(m)
			return &m, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r memoryMenu) List(_ context.Context, filter model.MenuFilter) ([]model.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	items := make([]model.MenuItem, 0, len(r.s.menuItems))
	for _, m := range r.s.menuItems {
		if filter.AvailableOnly && !m.Available {
			continue
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		items = append(items, cloneMenuItem(m))
	}
	// insertion order like a collection scan
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if len(items) > listLimit {
		items = items[:listLimit]
	}
	return items, nil
}

func (r memoryMenu) Update(_ context.Context, id string, p model.MenuItemPatch) (*model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.menuItems[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Slug != nil {
		if r.slugTaken(*p.Slug, id) {
			return nil, ErrSlugTaken
		}
		m.Slug = *p.Slug
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Price != nil {
		m.Price = *p.Price
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	if p.Ingredients != nil {
		m.Ingredients = p.Ingredients
	}
	if p.Calories != nil {
		m.Calories = *p.Calories
	}
	if p.Available != nil {
		m.Available = *p.Available
	}
	m = cloneMenuItem(m)
	r.s.menuItems[id] = m
	out := cloneMenuItem(m)
	return &out, nil
}

func (r memoryMenu) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menuItems[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.menuItems, id)
	return nil
}

func (r memoryMenu) Categories(_ context.Context) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	categories := []string{}
	for _, m := range r.s.menuItems {
		if _, ok := seen[m.Category]; ok || m.Category == "" {
			continue
		}
		seen[m.Category] = struct{}{}
		categories = append(categories, m.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

type memoryOrders struct{ s *MemoryStore }

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem{}, o.Items...)
	return o
}

func (r memoryOrders) Create(_ context.Context, order *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r memoryOrders) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r memoryOrders) List(_ context.Context, filter model.OrderFilter) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	orders := make([]model.Order, 0)
	for _, o := range r.s.orders {
		if filter.UserID != "" && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		orders = append(orders, cloneOrder(o))
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	if len(orders) > listLimit {
		orders = orders[:listLimit]
	}
	return orders, nil
}

func (r memoryOrders) UpdateStatus(_ context.Context, id, status string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return common.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = at
	r.s.orders[id] = o
	return nil
}

func (r memoryOrders) AttachPaymentOrder(_ context.Context, id, paymentOrderID string, amount int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return common.ErrNotFound
	}
	o.PaymentOrderID = paymentOrderID
	o.PaymentStatus = model.PaymentStatusCreated
	o.PaymentAmount = amount
	o.UpdatedAt = at
	r.s.orders[id] = o
	return nil
}

func (r memoryOrders) MarkPaid(_ context.Context, paymentOrderID, paymentID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, o := range r.s.orders {
		if o.PaymentOrderID != paymentOrderID {
			continue
		}
		o.PaymentID = paymentID
		o.PaymentStatus = model.PaymentStatusPaid
		o.UpdatedAt = at
		r.s.orders[id] = o
		return nil
	}
	return common.ErrNotFound
}

type memoryTestimonials struct{ s *MemoryStore }

func (r memoryTestimonials) Create(_ context.Context, t *model.Testimonial) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.testimonials = append(r.s.testimonials, *t)
	return nil
}

func (r memoryTestimonials) List(_ context.Context) ([]model.Testimonial, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := append([]model.Testimonial{}, r.s.testimonials...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > testimonialListLimit {
		out = out[:testimonialListLimit]
	}
	return out, nil
}
