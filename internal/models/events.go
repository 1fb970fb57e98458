package models

import "time"

// CampaignCreatedEvent is published on the bus after a campaign is stored.
type CampaignCreatedEvent struct {
	CampaignID     string    `msgpack:"campaign_id" json:"campaignId"`
	Title          string    `msgpack:"title" json:"title"`
	Category       Category  `msgpack:"category" json:"category"`
	Location       string    `msgpack:"location" json:"location"`
	Date           string    `msgpack:"date" json:"date"`
	Description    string    `msgpack:"description" json:"description"`
	OrganizerName  string    `msgpack:"organizer_name" json:"organizerName"`
	OrganizerEmail string    `msgpack:"organizer_email" json:"organizerEmail"`
	CreatedBy      string    `msgpack:"created_by" json:"createdBy"`
	CreatedAt      time.Time `msgpack:"created_at" json:"createdAt"`
}

func NewCampaignCreatedEvent(c Campaign) CampaignCreatedEvent {
	return CampaignCreatedEvent{
		CampaignID:     c.ID,
		Title:          c.Title,
		Category:       c.Category,
		Location:       c.Location,
		Date:           c.Date,
		Description:    c.Description,
		OrganizerName:  c.Name,
		OrganizerEmail: c.Email,
		CreatedBy:      c.CreatedBy,
		CreatedAt:      c.CreatedAt,
	}
}
