package dto

// UpdateBusinessRequest defines the business profile fields a shopkeeper may change.
type UpdateBusinessRequest struct {
	Name               *string `json:"name" binding:"omitempty,min=1"`
	Phone              *string `json:"phone" binding:"omitempty,mobile"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Address            *string `json:"address"`
	GSTIN              *string `json:"gstin" binding:"omitempty,gstin"`
	Currency           *string `json:"currency" binding:"omitempty,len=3"`
	Timezone           *string `json:"timezone" binding:"omitempty,timezone"`
	InvoicePrefix      *string `json:"invoicePrefix" binding:"omitempty,max=10"`
	InvoiceStartNumber *int64  `json:"invoiceStartNumber" binding:"omitempty,gte=1"`
}

// ListBusinessesParams defines query parameters for listing businesses.
type ListBusinessesParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}
