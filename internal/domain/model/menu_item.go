package model

import "time"

type MenuItem struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url"`
	Ingredients []string  `json:"ingredients"`
	Calories    int       `json:"calories"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
}

// MenuItemPatch holds the fields an admin update may touch. Nil means unchanged.
type MenuItemPatch struct {
	Name        *string
	Slug        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	Ingredients []string
	Calories    *int
	Available   *bool
}

func (p MenuItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.ImageURL == nil && p.Ingredients == nil &&
		p.Calories == nil && p.Available == nil
}

type MenuFilter struct {
	Category      string
	AvailableOnly bool
}
