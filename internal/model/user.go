package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// SavedKind is the type of item a user can bookmark
type SavedKind string

const (
	SavedPolicy         SavedKind = "policies"
	SavedRepresentative SavedKind = "representatives"
)

// Valid reports whether k names a saveable collection.
func (k SavedKind) Valid() bool {
	return k == SavedPolicy || k == SavedRepresentative
}

type Location struct {
	Address               string `json:"address,omitempty" bson:"address,omitempty"`
	City                  string `json:"city" bson:"city"`
	State                 string `json:"state" bson:"state"`
	ZipCode               string `json:"zipCode" bson:"zipCode"`
	CongressionalDistrict string `json:"congressionalDistrict,omitempty" bson:"congressionalDistrict,omitempty"`
}

// User is a registered account
type User struct {
	ID                   string    `json:"id" bson:"_id,omitempty"`
	Name                 string    `json:"name" bson:"name"`
	Email                string    `json:"email" bson:"email"`
	PasswordHash         string    `json:"-" bson:"passwordHash"`
	Role                 Role      `json:"role" bson:"role"`
	Location             Location  `json:"location" bson:"location"`
	SavedPolicies        []string  `json:"savedPolicies" bson:"savedPolicies"`
	SavedRepresentatives []string  `json:"savedRepresentatives" bson:"savedRepresentatives"`
	CreatedAt            time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Profile is the signed-in user's dashboard view
type Profile struct {
	User                 *User             `json:"user"`
	SavedPolicies        []*Policy         `json:"savedPolicies"`
	SavedRepresentatives []*Representative `json:"savedRepresentatives"`
	LatestResult         *QuizResult       `json:"latestResult,omitempty"`
}

// UpdateProfileRequest is the request body for PUT /v1/profile
type UpdateProfileRequest struct {
	Name     string   `json:"name"`
	Location Location `json:"location"`
}
