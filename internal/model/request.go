package model

import (
	"strings"
	"time"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=4"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" label:"Reset token" validate:"required"`
	Password string `json:"password" validate:"required,min=4"`
}

// UpdateMeRequest validates every field that is present, so a blank name is rejected rather than skipped.
type UpdateMeRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=4"`
	Email *string `json:"email" validate:"omitnil,email"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=4"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=4"`
	Email    *string `json:"email" validate:"omitnil,email"`
	Password *string `json:"password" validate:"omitnil,min=4"`
	Role     *string `json:"role" validate:"omitnil,oneof=user admin"`
}

type TaxonomyRequest struct {
	Name        string `json:"name" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
	Image       string `json:"image"`
}

type TaxonomyPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Image       *string `json:"image"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" label:"Product name" validate:"required,max=200"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Image       string   `json:"image"`
	Quantity    int      `json:"quantity" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Brand       *string  `json:"brand"`
	Company     *string  `json:"company"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name" label:"Product name" validate:"omitempty,max=200"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	Quantity    *int     `json:"quantity" validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Brand       *string  `json:"brand"`
	Company     *string  `json:"company"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}

type ReviewPatch struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,min=1"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" label:"Product" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"omitempty,gte=1"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItem     `json:"order_items" validate:"dive"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method" validate:"required"`
	ItemsPrice      float64         `json:"items_price" validate:"gte=0"`
	TaxPrice        float64         `json:"tax_price" validate:"gte=0"`
	ShippingPrice   float64         `json:"shipping_price" validate:"gte=0"`
	TotalPrice      float64         `json:"total_price" validate:"gte=0"`
}

type PayOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// BannerForm is decoded from multipart fields, not JSON.
type BannerForm struct {
	Title     string     `label:"Title" validate:"required,max=200"`
	TargetURL string     `label:"Target URL" validate:"required,url"`
	StartDate time.Time  `label:"Start date"`
	EndDate   *time.Time `label:"End date"`
	IsActive  bool
}

type MovieRequest struct {
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Image         string `json:"image" validate:"required"`
	DurationMin   int    `json:"duration_min" label:"Duration" validate:"required,gte=1"`
	PublishedYear int    `json:"published_year" label:"Published year" validate:"required,gte=1800,lte=3000"`
	Type          string `json:"type" validate:"required"`
	Trending      bool   `json:"trending"`
}

type MoviePatch struct {
	Title         *string `json:"title" validate:"omitempty,min=1"`
	Description   *string `json:"description" validate:"omitempty,min=1"`
	Image         *string `json:"image" validate:"omitempty,min=1"`
	DurationMin   *int    `json:"duration_min" label:"Duration" validate:"omitempty,gte=1"`
	PublishedYear *int    `json:"published_year" label:"Published year" validate:"omitempty,gte=1800,lte=3000"`
	Type          *string `json:"type" validate:"omitempty,min=1"`
	Trending      *bool   `json:"trending"`
}

type FavoriteRequest struct {
	MovieID string `json:"movie_id" label:"Movie" validate:"required"`
}

type CreateConversationRequest struct {
	Name       string   `json:"name" validate:"max=100"`
	Picture    string   `json:"picture"`
	IsGroup    bool     `json:"is_group"`
	ReceiverID string   `json:"receiver_id" label:"Receiver"`
	Users      []string `json:"users"`
}

type UpdateConversationRequest struct {
	Name    *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Picture *string   `json:"picture"`
	Users   *[]string `json:"users"`
}

type SendMessageRequest struct {
	Message string   `json:"message" validate:"required_without=Files"`
	Files   []string `json:"files" validate:"required_without=Message"`
}

// ExpenseRequest is checked by the expense service, which reports all fields together.
type ExpenseRequest struct {
	Title    string   `json:"title"`
	Amount   *float64 `json:"amount"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *ResetPasswordRequest) Normalize() {
	r.Token = strings.TrimSpace(r.Token)
}

func (r *UpdateMeRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Email)
}

func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Role = strings.TrimSpace(r.Role)
}

func (r *UpdateUserRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Email)
	trimPtr(r.Role)
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// ParseDate accepts RFC 3339 timestamps or plain dates; blank yields the zero time.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse(time.DateOnly, raw)
	}
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
