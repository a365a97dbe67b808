package dto

// OverviewParams defines query parameters for the business overview.
type OverviewParams struct {
	From string `form:"from"` // YYYY-MM-DD
	To   string `form:"to"`   // YYYY-MM-DD
}
