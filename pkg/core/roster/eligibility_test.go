package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligibleByDuty(t *testing.T) {
	duties := []Duty{
		{ID: "d-opd", Name: "OPD", Department: "Medicine"},
		{ID: "d-ward", Name: "Ward", Department: "Medicine"},
	}
	doctors := []Doctor{
		{ID: "doc-c", Name: "Dr Carter", PreferredDuties: []string{"d-opd"}},
		{ID: "doc-a", Name: "Dr Ahmed"},
		{ID: "doc-b", Name: "Dr Bose", PreferredDuties: []string{"d-ward", "d-opd"}},
	}

	eligible := EligibleByDuty(duties, doctors)

	opd := eligible["d-opd"]
	assert.Len(t, opd, 3)
	assert.Equal(t, "doc-a", opd[0].ID, "lists are sorted by name")
	assert.Equal(t, "doc-b", opd[1].ID)
	assert.Equal(t, "doc-c", opd[2].ID)

	ward := eligible["d-ward"]
	assert.Len(t, ward, 2)
	assert.Equal(t, "doc-a", ward[0].ID, "no preferred duties means eligible for everything")
	assert.Equal(t, "doc-b", ward[1].ID)
}

func TestEligibleByDutyEmpty(t *testing.T) {
	eligible := EligibleByDuty([]Duty{{ID: "d-opd", Name: "OPD"}}, nil)
	assert.Empty(t, eligible["d-opd"])
}
