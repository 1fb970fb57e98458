package models

import "time"

type Category string

const (
	CategoryCleanup    Category = "cleanup"
	CategoryPlantation Category = "plantation"
	CategoryAwareness  Category = "awareness"
	CategoryRecycling  Category = "recycling"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCleanup, CategoryPlantation, CategoryAwareness, CategoryRecycling:
		return true
	}
	return false
}

// Campaign is a community event created by a signed-in organizer. The
// organizer fields are taken from the submission, not from the session user.
type Campaign struct {
	ID          string    `json:"id" db:"id" bson:"_id"`
	Name        string    `json:"name" db:"name" bson:"name"`
	Email       string    `json:"email" db:"email" bson:"email"`
	Phone       string    `json:"phone" db:"phone" bson:"phone"`
	Title       string    `json:"title" db:"title" bson:"title"`
	Category    Category  `json:"category" db:"category" bson:"category"`
	Location    string    `json:"location" db:"location" bson:"location"`
	Date        string    `json:"date" db:"date" bson:"date"`
	Duration    string    `json:"duration" db:"duration" bson:"duration"`
	Description string    `json:"description" db:"description" bson:"description"`
	CreatedBy   string    `json:"createdBy" db:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
}

type CampaignInput struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Email       string `json:"email" validate:"notblank,email"`
	Phone       string `json:"phone" validate:"notblank,max=32"`
	Title       string `json:"title" validate:"notblank,max=200"`
	Category    string `json:"category" validate:"notblank,category"`
	Location    string `json:"location" validate:"notblank,max=200"`
	Date        string `json:"date" validate:"notblank,datetime=2006-01-02"`
	Duration    string `json:"duration" validate:"notblank,max=50"`
	Description string `json:"description" validate:"notblank,max=5000"`
}

// Campaign copies the submitted values verbatim; ID and audit fields are
// filled in by the caller.
func (in CampaignInput) Campaign() Campaign {
	return Campaign{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Title:       in.Title,
		Category:    Category(in.Category),
		Location:    in.Location,
		Date:        in.Date,
		Duration:    in.Duration,
		Description: in.Description,
	}
}
