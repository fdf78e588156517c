package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemCategory enum
type ItemCategory string

const (
	Electronics ItemCategory = "Electronics"
	Clothing    ItemCategory = "Clothing"
	Documents   ItemCategory = "Documents"
	Accessories ItemCategory = "Accessories"
	Other       ItemCategory = "Other"
)

// ItemStatus enum
type ItemStatus string

const (
	Lost     ItemStatus = "lost"
	Found    ItemStatus = "found"
	Pending  ItemStatus = "pending"
	Claimed  ItemStatus = "claimed"
	Rejected ItemStatus = "rejected"
)

// Categories lists every valid item category.
var Categories = []ItemCategory{Electronics, Clothing, Documents, Accessories, Other}

// Statuses lists every valid item status.
var Statuses = []ItemStatus{Lost, Found, Pending, Claimed, Rejected}

// ValidCategory reports whether c is a member of the category enumeration.
func ValidCategory(c ItemCategory) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s ItemStatus) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// transitions is the single authority for the claim workflow. A claim moves
// an unclaimed (or previously rejected) item to pending; an admin decision
// moves a pending item to claimed or rejected. The admin status override
// deliberately does not consult this table.
var transitions = map[ItemStatus][]ItemStatus{
	Lost:     {Pending},
	Found:    {Pending},
	Rejected: {Pending},
	Pending:  {Claimed, Rejected},
}

// CanTransition reports whether the guarded workflow allows from -> to.
func CanTransition(from, to ItemStatus) bool {
	for _, v := range transitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// AllowedFrom returns every status from which the guarded workflow may
// transition into to. Used as the expected-status set of conditional writes.
func AllowedFrom(to ItemStatus) []ItemStatus {
	var from []ItemStatus
	for _, s := range Statuses {
		if CanTransition(s, to) {
			from = append(from, s)
		}
	}
	return from
}

// Contact holds the identity of a reporter or claimant. ClaimedAt is only
// set on claimant records.
type Contact struct {
	FirstName string     `bson:"firstName" json:"firstName"`
	LastName  string     `bson:"lastName" json:"lastName"`
	Email     string     `bson:"email" json:"email"`
	Phone     string     `bson:"phone" json:"phone"`
	ClaimedAt *time.Time `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
}

// Item represents a lost or found object tracked by the system. Reporter is
// set once at creation and never touched by the claim workflow. ClaimedBy is
// absent until a claim is submitted and is never cleared afterwards, so a
// rejected claim keeps its history.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    ItemCategory       `bson:"category" json:"category"`
	Status      ItemStatus         `bson:"status" json:"status"`
	Location    string             `bson:"location" json:"location"`
	Date        time.Time          `bson:"date" json:"date"`
	Images      []string           `bson:"images" json:"images"`
	Reporter    Contact            `bson:"reporter" json:"reporter"`
	ClaimedBy   *Contact           `bson:"claimedBy,omitempty" json:"claimedBy,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
