package repository

import (
	"time"

	"cocoa_backend/internal/domain/model"
)

const (
	UsersCollection        = "users"
	MenuItemsCollection    = "menu_items"
	OrdersCollection       = "orders"
	TestimonialsCollection = "testimonials"

	listLimit            = 1000
	testimonialListLimit = 100
)

// Timestamps are stored as fixed width ISO-8601 strings in UTC so that
// sorting on the string field matches chronological order.
const storedTimeLayout = "2006-01-02T15:04:05.000000-07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTime accepts any RFC 3339 string, including ones written without
// fractional seconds by older revisions.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type userDocument struct {
	ID        string `bson:"id"`
	Email     string `bson:"email"`
	Name      string `bson:"name"`
	Role      string `bson:"role"`
	Password  string `bson:"password"`
	CreatedAt string `bson:"created_at"`
}

func newUserDocument(u *model.User) userDocument {
	return userDocument{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Password:  u.HashedPassword,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func (d userDocument) toModel() *model.User {
	return &model.User{
		ID:             d.ID,
		Email:          d.Email,
		Name:           d.Name,
		Role:           d.Role,
		HashedPassword: d.Password,
		CreatedAt:      parseTime(d.CreatedAt),
	}
}

type menuItemDocument struct {
	ID          string   `bson:"id"`
	Slug        string   `bson:"slug,omitempty"`
	Name        string   `bson:"name"`
	Description string   `bson:"description"`
	Price       float64  `bson:"price"`
	Category    string   `bson:"category"`
	ImageURL    string   `bson:"image_url"`
	Ingredients []string `bson:"ingredients"`
	Calories    int      `bson:"calories"`
	Available   bool     `bson:"available"`
	CreatedAt   string   `bson:"created_at"`
}

func newMenuItemDocument(m *model.MenuItem) menuItemDocument {
	return menuItemDocument{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		Ingredients: m.Ingredients,
		Calories:    m.Calories,
		Available:   m.Available,
		CreatedAt:   formatTime(m.CreatedAt),
	}
}

func (d menuItemDocument) toModel() *model.MenuItem {
	ingredients := d.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return &model.MenuItem{
		ID:          d.ID,
		Slug:        d.Slug,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    d.Category,
		ImageURL:    d.ImageURL,
		Ingredients: ingredients,
		Calories:    d.Calories,
		Available:   d.Available,
		CreatedAt:   parseTime(d.CreatedAt),
	}
}

type orderItemDocument struct {
	MenuItemID string  `bson:"menu_item_id"`
	Name       string  `bson:"name"`
	Price      float64 `bson:"price"`
	Quantity   int     `bson:"quantity"`
}

type orderDocument struct {
	ID             string              `bson:"id"`
	UserID         string              `bson:"user_id"`
	UserName       string              `bson:"user_name"`
	UserEmail      string              `bson:"user_email"`
	Items          []orderItemDocument `bson:"items"`
	TotalAmount    float64             `bson:"total_amount"`
	Status         string              `bson:"status"`
	PaymentOrderID string              `bson:"payment_order_id,omitempty"`
	PaymentID      string              `bson:"payment_id,omitempty"`
	PaymentStatus  string              `bson:"payment_status,omitempty"`
	PaymentAmount  int64               `bson:"payment_amount,omitempty"`
	CreatedAt      string              `bson:"created_at"`
	UpdatedAt      string              `bson:"updated_at"`
}

func newOrderDocument(o *model.Order) orderDocument {
	items := make([]orderItemDocument, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDocument(it))
	}
	return orderDocument{
		ID:             o.ID,
		UserID:         o.UserID,
		UserName:       o.UserName,
		UserEmail:      o.UserEmail,
		Items:          items,
		TotalAmount:    o.TotalAmount,
		Status:         o.Status,
		PaymentOrderID: o.PaymentOrderID,
		PaymentID:      o.PaymentID,
		PaymentStatus:  o.PaymentStatus,
		PaymentAmount:  o.PaymentAmount,
		CreatedAt:      formatTime(o.CreatedAt),
		UpdatedAt:      formatTime(o.UpdatedAt),
	}
}

func (d orderDocument) toModel() *model.Order {
	items := make([]model.OrderItem, 0, len(d.Items))
	for _, it := range d.Items {
		items = append(items, model.OrderItem(it))
	}
	return &model.Order{
		ID:             d.ID,
		UserID:         d.UserID,
		UserName:       d.UserName,
		UserEmail:      d.UserEmail,
		Items:          items,
		TotalAmount:    d.TotalAmount,
		Status:         d.Status,
		PaymentOrderID: d.PaymentOrderID,
		PaymentID:      d.PaymentID,
		PaymentStatus:  d.PaymentStatus,
		PaymentAmount:  d.PaymentAmount,
		CreatedAt:      parseTime(d.CreatedAt),
		UpdatedAt:      parseTime(d.UpdatedAt),
	}
}

type testimonialDocument struct {
	ID        string `bson:"id"`
	Name      string `bson:"name"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment"`
	CreatedAt string `bson:"created_at"`
}

func newTestimonialDocument(t *model.Testimonial) testimonialDocument {
	return testimonialDocument{
		ID:        t.ID,
		Name:      t.Name,
		Rating:    t.Rating,
		Comment:   t.Comment,
		CreatedAt: formatTime(t.CreatedAt),
	}
}

func (d testimonialDocument) toModel() *model.Testimonial {
	return &model.Testimonial{
		ID:        d.ID,
		Name:      d.Name,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: parseTime(d.CreatedAt),
	}
}
