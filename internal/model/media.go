package model

import "time"

type Banner struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"image_url"`
	TargetURL string     `json:"target_url"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type BannerUpdate struct {
	Title     *string
	ImageURL  *string
	TargetURL *string
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
}

type Movie struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Image         string    `json:"image"`
	DurationMin   int       `json:"duration_min"`
	PublishedYear int       `json:"published_year"`
	Type          string    `json:"type"`
	Trending      bool      `json:"trending"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MovieUpdate struct {
	Title         *string
	Description   *string
	Image         *string
	DurationMin   *int
	PublishedYear *int
	Type          *string
	Trending      *bool
}

type FavoriteMovie struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	MovieID   string    `json:"movie_id"`
	Movie     *Movie    `json:"movie,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Picture         string    `json:"picture"`
	IsGroup         bool      `json:"is_group"`
	Users           []string  `json:"users"`
	AdminID         *string   `json:"admin,omitempty"`
	LatestMessageID *string   `json:"latest_message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (c Conversation) HasMember(userID string) bool {
	for _, member := range c.Users {
		if member == userID {
			return true
		}
	}
	return false
}

type ConversationUpdate struct {
	Name    *string
	Picture *string
	Users   *[]string
}

type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Message        string    `json:"message"`
	Files          []string  `json:"files"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
