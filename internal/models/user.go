package models

type User struct {
	BaseModel

	Email           *string `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName       string  `gorm:"size:255" json:"firstName"`
	LastName        string  `gorm:"size:255" json:"lastName"`
	ProfileImageURL string  `gorm:"size:1024" json:"profileImageUrl"`
	Bio             string  `gorm:"type:text" json:"bio"`
	Location        string  `gorm:"size:255" json:"location"`

	// Relationships
	OrganizedProjects []Project      `gorm:"foreignKey:OrganizerID" json:"-"`
	Rsvps             []Rsvp         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Badges            []UserBadge    `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Notifications     []Notification `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// DisplayName is the name shown to other volunteers.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Email != nil:
		return *u.Email
	default:
		return "Someone"
	}
}
