package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from    ItemStatus
		to      ItemStatus
		allowed bool
	}{
		{Lost, Pending, true},
		{Found, Pending, true},
		{Rejected, Pending, true}, // rejected items may be re-claimed
		{Pending, Claimed, true},
		{Pending, Rejected, true},

		{Pending, Pending, false}, // double claim
		{Claimed, Pending, false},
		{Claimed, Claimed, false}, // double approve
		{Claimed, Rejected, false},
		{Rejected, Rejected, false}, // double reject
		{Rejected, Claimed, false},
		{Lost, Claimed, false}, // no decision without a claim
		{Found, Claimed, false},
		{Lost, Rejected, false},
		{Found, Rejected, false},
		{Lost, Found, false},
		{Found, Lost, false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		assert.Equalf(t, tt.allowed, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestAllowedFrom(t *testing.T) {
	assert.ElementsMatch(t, []ItemStatus{Lost, Found, Rejected}, AllowedFrom(Pending))
	assert.ElementsMatch(t, []ItemStatus{Pending}, AllowedFrom(Claimed))
	assert.ElementsMatch(t, []ItemStatus{Pending}, AllowedFrom(Rejected))
	assert.Empty(t, AllowedFrom(Lost))
	assert.Empty(t, AllowedFrom(Found))
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, ValidCategory(c))
	}
	assert.False(t, ValidCategory("Furniture"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("electronics")) // enum is case sensitive
}

func TestValidStatus(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("returned"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Lost"))
}
