package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Slug        string   `bson:"slug" json:"slug" validate:"required"`
	Title       string   `bson:"title" json:"title" validate:"required"`             // e.g., "React Summit 2025"
	Description string   `bson:"description" json:"description" validate:"required"` // short pitch shown in the header
	Overview    string   `bson:"overview" json:"overview" validate:"required"`
	Image       string   `bson:"image" json:"image"`                             // set from the upload result, never by the client
	Date        string   `bson:"date" json:"date" validate:"required"`           // e.g., "2025-11-07"
	Time        string   `bson:"time" json:"time" validate:"required"`           // e.g., "09:00"
	Location    string   `bson:"location" json:"location" validate:"required"`   // e.g., "Amsterdam, NL"
	Mode        string   `bson:"mode" json:"mode" validate:"required"`           // e.g., "hybrid"
	Audience    string   `bson:"audience" json:"audience" validate:"required"`   // e.g., "Frontend developers"
	Organizer   string   `bson:"organizer" json:"organizer" validate:"required"` // e.g., "GitNation"
	Tags        []string `bson:"tags" json:"tags"`
	Agenda      []string `bson:"agenda" json:"agenda"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EventFromFields copies the scalar form fields onto a new Event. Tags,
// agenda and image are left for the caller.
func EventFromFields(fields map[string]string) *Event {
	return &Event{
		Slug:        fields["slug"],
		Title:       fields["title"],
		Description: fields["description"],
		Overview:    fields["overview"],
		Date:        fields["date"],
		Time:        fields["time"],
		Location:    fields["location"],
		Mode:        fields["mode"],
		Audience:    fields["audience"],
		Organizer:   fields["organizer"],
	}
}

func (e *Event) BeforeCreate(now time.Time) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Agenda == nil {
		e.Agenda = []string{}
	}
}

// EventDetails is everything the event page needs in one response.
type EventDetails struct {
	Event         *Event   `json:"event"`
	SimilarEvents []*Event `json:"similar_events"`
	Bookings      int      `json:"bookings"`
}
