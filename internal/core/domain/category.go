package domain

// Category groups products of a business.
type Category struct {
	CategoryID  string `json:"categoryID"`
	BusinessID  string `json:"businessID"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SoftDelete
	AuditFields
}
