package model

// Supplier is an entity items may be sourced from.
type Supplier struct {
	ID            int64  `json:"id,omitempty"`
	Name          string `json:"supplier_name"`
	ContactPerson string `json:"supplier_contact_person"`
	ContactNumber string `json:"supplier_contact_number"`
}
