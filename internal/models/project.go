package models

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryCleanup          Category = "cleanup"
	CategoryTreePlanting     Category = "tree_planting"
	CategoryEducation        Category = "education"
	CategoryConstruction     Category = "construction"
	CategoryFoodDistribution Category = "food_distribution"
	CategoryHealthcare       Category = "healthcare"
	CategoryDisasterRelief   Category = "disaster_relief"
	CategoryCommunityService Category = "community_service"

	// CategoryAll is the list filter sentinel; it is never stored.
	CategoryAll Category = "all"
)

var Categories = []Category{
	CategoryCleanup,
	CategoryTreePlanting,
	CategoryEducation,
	CategoryConstruction,
	CategoryFoodDistribution,
	CategoryHealthcare,
	CategoryDisasterRelief,
	CategoryCommunityService,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Project struct {
	BaseModel

	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Category      Category  `gorm:"size:32;not null;index" json:"category"`
	Location      string    `gorm:"size:255;not null" json:"location"`
	Latitude      *float64  `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude     *float64  `gorm:"type:decimal(11,8)" json:"longitude"`
	DateTime      time.Time `gorm:"not null" json:"dateTime"`
	Duration      *int      `json:"duration"` // hours
	MaxVolunteers *int      `json:"maxVolunteers"`
	OrganizerID   string    `gorm:"size:64;not null;index" json:"organizerId"`
	ImageURL      *string   `gorm:"size:1024" json:"imageUrl"`
	Requirements  *string   `gorm:"type:text" json:"requirements"`
	Provided      *string   `gorm:"type:text" json:"provided"`
	ContactPerson *string   `gorm:"size:255" json:"contactPerson"`
	ContactPhone  *string   `gorm:"size:64" json:"contactPhone"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"isActive"`

	// SearchText holds the lower-cased title, description and location.
	SearchText string `gorm:"type:text;not null;default:''" json:"-"`

	// Relationships
	Organizer *User     `gorm:"foreignKey:OrganizerID;constraint:OnUpdate:CASCADE" json:"-"`
	Rsvps     []Rsvp    `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Messages  []Message `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HasCapacityFor reports whether one more volunteer fits given the current
// confirmed count. Projects without a limit always have room.
func (p Project) HasCapacityFor(confirmed int64) bool {
	if p.MaxVolunteers == nil {
		return true
	}
	return confirmed < int64(*p.MaxVolunteers)
}

// SearchKey is the value stored in SearchText. Lower-casing happens here
// because SQLite's LOWER only folds ASCII.
func (p Project) SearchKey() string {
	return strings.ToLower(p.Title + "\n" + p.Description + "\n" + p.Location)
}
