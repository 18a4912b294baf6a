package model

import "time"

// Taxonomy is the shared shape of categories, brands and companies.
type Taxonomy struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaxonomyUpdate struct {
	Name        *string
	Description *string
	Image       *string
}

type ProductSummary struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}

type CompanyWithProducts struct {
	Taxonomy
	Products []ProductSummary `json:"products"`
}

// Ref is a populated reference to another record.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	Image           string    `json:"image,omitempty"`
	Images          []string  `json:"images"`
	Quantity        int       `json:"quantity"`
	Category        Ref       `json:"category"`
	Brand           *Ref      `json:"brand,omitempty"`
	Company         *Ref      `json:"company,omitempty"`
	CreatedBy       Ref       `json:"created_by"`
	RatingAverage   float64   `json:"rating_average"`
	RatingsQuantity int       `json:"ratings_quantity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ProductWithReviews struct {
	Product
	Reviews []Review `json:"reviews"`
}

type NewProduct struct {
	Name        string
	Description string
	Price       float64
	Image       string
	Quantity    int
	CategoryID  string
	BrandID     *string
	CompanyID   *string
	CreatedBy   string
}

type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
	Images      *[]string
	Quantity    *int
	CategoryID  *string
	BrandID     *string
	CompanyID   *string
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewUpdate struct {
	Rating  *int
	Comment *string
}
