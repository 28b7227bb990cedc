package listing

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FeedSize is the fixed number of items the listing feed returns
const FeedSize = 20

// VerificationStatus represents the verification state of a seller account
type VerificationStatus string

const (
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationUnverified VerificationStatus = "UNVERIFIED"
)

// Condition represents the physical condition of a listed item
type Condition string

const (
	ConditionNew     Condition = "NEW"
	ConditionLikeNew Condition = "LIKE_NEW"
	ConditionGood    Condition = "GOOD"
	ConditionFair    Condition = "FAIR"
)

// Category represents the marketplace category of a listed item
type Category string

const (
	CategoryElectronics Category = "ELECTRONICS"
	CategoryBooks       Category = "BOOKS"
	CategoryFashion     Category = "FASHION"
	CategoryHome        Category = "HOME"
	CategorySports      Category = "SPORTS"
	CategoryOther       Category = "OTHER"
)

// Seller is the public projection of the account offering an item
type Seller struct {
	ID                 uuid.UUID          `json:"id"`
	Name               string             `json:"name"`
	Photo              *string            `json:"photo"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	AvgRating          float64            `json:"avgRating"`
	IsOnline           bool               `json:"isOnline"`
	Badges             []string           `json:"badges"`
}

// IsVerified returns true if the seller passed verification
func (s *Seller) IsVerified() bool {
	return s.VerificationStatus == VerificationVerified
}

// HasPhoto returns true if the seller has a non-empty photo reference
func (s *Seller) HasPhoto() bool {
	return s.Photo != nil && *s.Photo != ""
}

// Initial returns the first letter of the seller name, used as avatar fallback
func (s *Seller) Initial() string {
	r, size := utf8.DecodeRuneInString(s.Name)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// Item represents a marketplace listing together with its seller projection
type Item struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Photo         *string   `json:"photo"`
	Condition     Condition `json:"condition"`
	AIPriceRating *string   `json:"aiPriceRating"`
	Category      Category  `json:"category"`
	CreatedAt     time.Time `json:"createdAt"`
	Seller        Seller    `json:"seller"`
}

// HasPhoto returns true if the item has a non-empty photo reference
func (i *Item) HasPhoto() bool {
	return i.Photo != nil && *i.Photo != ""
}

// HasPriceRating returns true if an AI price rating label is attached
func (i *Item) HasPriceRating() bool {
	return i.AIPriceRating != nil && *i.AIPriceRating != ""
}
