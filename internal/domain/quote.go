package domain

import (
	"time"

	"github.com/google/uuid"
)

// TailoringRequest is a made-to-order garment request. OwnerID is nil for
// anonymous submissions, which are matched by contact email instead.
//
// QuotedAmount is set if and only if the request has passed through the quoted
// status. Once accepted or cancelled the record is immutable to administrators.
type TailoringRequest struct {
	ID          uuid.UUID
	OwnerID     *string
	Name        string
	Email       string
	Phone       string
	Garment     Garment
	DesignNotes string

	Status       QuoteStatus
	AdminNotes   string
	QuotedAmount *Money
	Response     CustomerResponse

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether the given customer may respond to this request:
// by reference when the request was created while authenticated, by contact
// email otherwise.
func (r TailoringRequest) OwnedBy(customer Customer) bool {
	if r.OwnerID != nil {
		return *r.OwnerID == customer.ID
	}
	return r.Email == customer.Email
}
