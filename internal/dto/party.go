package dto

import (
	"github.com/SscSPs/billistry/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest defines the data needed to create a customer or supplier.
type CreatePartyRequest struct {
	Type           domain.PartyType    `json:"type" binding:"required,oneof=customer supplier"`
	Name           string              `json:"name" binding:"required"`
	Mobile         string              `json:"mobile" binding:"required,mobile"`
	Email          string              `json:"email" binding:"omitempty,email"`
	Address        string              `json:"address"`
	GSTIN          string              `json:"gstin" binding:"omitempty,gstin"`
	BankDetails    *domain.BankDetails `json:"bankDetails"`
	OpeningBalance decimal.Decimal     `json:"openingBalance"`
}

// UpdatePartyRequest defines the party fields allowed to change. Balances are
// never updated directly.
type UpdatePartyRequest struct {
	Name        *string             `json:"name" binding:"omitempty,min=1"`
	Mobile      *string             `json:"mobile" binding:"omitempty,mobile"`
	Email       *string             `json:"email" binding:"omitempty,email"`
	Address     *string             `json:"address"`
	GSTIN       *string             `json:"gstin" binding:"omitempty,gstin"`
	BankDetails *domain.BankDetails `json:"bankDetails"`
}

// ListPartiesParams defines query parameters for listing parties.
type ListPartiesParams struct {
	Type   domain.PartyType `form:"type" binding:"omitempty,oneof=customer supplier"`
	Search string           `form:"search"`
	Limit  int              `form:"limit,default=20"`
	Offset int              `form:"offset,default=0"`
}

// ListPartiesResponse wraps a page of parties.
type ListPartiesResponse struct {
	Parties []domain.Party `json:"parties"`
}
