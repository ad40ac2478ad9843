package model

import "time"

// Phone represents a contact phone number owned by an organization.
type Phone struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	OrganizationID string `json:"-"`
}

// Organization represents a company listed in the catalog.
// Building, Phones and Activities are hydrated by the repository.
type Organization struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	BuildingID string      `json:"building_id"`
	Building   *Building   `json:"building,omitempty"`
	Phones     []Phone     `json:"phones"`
	Activities []*Activity `json:"activities"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// PhoneNumbers returns the raw phone number strings.
func (o *Organization) PhoneNumbers() []string {
	numbers := make([]string, len(o.Phones))
	for i, p := range o.Phones {
		numbers[i] = p.Number
	}
	return numbers
}

// ActivityIDs returns the IDs of the organization's activities.
func (o *Organization) ActivityIDs() []string {
	ids := make([]string, len(o.Activities))
	for i, a := range o.Activities {
		ids[i] = a.ID
	}
	return ids
}
