package model

import "time"

type ContactInfo struct {
	Email         string `json:"email,omitempty" bson:"email,omitempty"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	Website       string `json:"website,omitempty" bson:"website,omitempty"`
	OfficeAddress string `json:"officeAddress,omitempty" bson:"officeAddress,omitempty"`
}

type SocialMedia struct {
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
}

type Committee struct {
	Name     string `json:"name" bson:"name"`
	Position string `json:"position,omitempty" bson:"position,omitempty"` // "Chair", "Member"
}

// Representative is a tracked government official
type Representative struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Name        string      `json:"name" bson:"name"`
	Title       string      `json:"title" bson:"title"` // "Senator", "Governor", ...
	Party       string      `json:"party" bson:"party"`
	State       string      `json:"state" bson:"state"`
	District    string      `json:"district,omitempty" bson:"district,omitempty"`
	Level       string      `json:"level" bson:"level"` // "federal", "state", "local"
	Office      string      `json:"office,omitempty" bson:"office,omitempty"`
	TermStart   time.Time   `json:"termStart,omitempty" bson:"termStart,omitempty"`
	TermEnd     time.Time   `json:"termEnd,omitempty" bson:"termEnd,omitempty"`
	Biography   string      `json:"biography,omitempty" bson:"biography,omitempty"`
	PhotoURL    string      `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	ContactInfo ContactInfo `json:"contactInfo" bson:"contactInfo"`
	SocialMedia SocialMedia `json:"socialMedia,omitempty" bson:"socialMedia,omitempty"`
	Committees  []Committee `json:"committees,omitempty" bson:"committees,omitempty"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// RepresentativeFilter narrows a representative listing
type RepresentativeFilter struct {
	Party string
	State string
	Level string
	Limit int64
}
