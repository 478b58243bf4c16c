package model

import "time"

// PolicyStatus tracks where a policy is in its lifecycle
type PolicyStatus string

const (
	PolicyProposed PolicyStatus = "proposed"
	PolicyPassed   PolicyStatus = "passed"
	PolicyFailed   PolicyStatus = "failed"
	PolicyVetoed   PolicyStatus = "vetoed"
)

// Jurisdiction is the geographic reach of a policy
type Jurisdiction struct {
	Country string `json:"country" bson:"country"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	County  string `json:"county,omitempty" bson:"county,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
}

// Vote is one representative's vote on a policy
type Vote struct {
	RepresentativeID string    `json:"representativeId" bson:"representativeId"`
	Vote             string    `json:"vote" bson:"vote"` // "yes", "no", "abstain"
	Date             time.Time `json:"date" bson:"date"`
	Comments         string    `json:"comments,omitempty" bson:"comments,omitempty"`
}

// Source cites where policy information came from
type Source struct {
	URL         string    `json:"url" bson:"url"`
	Title       string    `json:"title" bson:"title"`
	Publisher   string    `json:"publisher,omitempty" bson:"publisher,omitempty"`
	PublishedAt time.Time `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
}

// Policy is a piece of legislation, executive order or ordinance
type Policy struct {
	ID             string       `json:"id" bson:"_id,omitempty"`
	Title          string       `json:"title" bson:"title"`
	Description    string       `json:"description" bson:"description"`
	SimplifiedDesc string       `json:"simplifiedDesc" bson:"simplifiedDesc"` // plain-language summary
	OriginalText   string       `json:"originalText,omitempty" bson:"originalText,omitempty"`
	Status         PolicyStatus `json:"status" bson:"status"`
	Type           string       `json:"type" bson:"type"`   // "bill", "executive order", "local ordinance"
	Level          string       `json:"level" bson:"level"` // "federal", "state", "local"
	Jurisdiction   Jurisdiction `json:"jurisdiction" bson:"jurisdiction"`
	Tags           []string     `json:"tags" bson:"tags"`
	SponsorIDs     []string     `json:"sponsorIds,omitempty" bson:"sponsorIds,omitempty"`
	VotingRecord   []Vote       `json:"votingRecord,omitempty" bson:"votingRecord,omitempty"`
	Sources        []Source     `json:"sources,omitempty" bson:"sources,omitempty"`
	IntroducedAt   time.Time    `json:"introducedAt" bson:"introducedAt"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// PolicyFilter narrows a policy listing
type PolicyFilter struct {
	Level  string
	Status string
	Tag    string
	State  string
	City   string
	Limit  int64
}

// RepresentativeVote pairs a policy with how a representative voted on it
type RepresentativeVote struct {
	PolicyID    string       `json:"policyId"`
	PolicyTitle string       `json:"policyTitle"`
	Status      PolicyStatus `json:"status"`
	Vote        string       `json:"vote"`
	Date        time.Time    `json:"date"`
}
