package domain

import "errors"

type QuoteStatus string

// remember to add new statuses to the validQuoteStatuses map
const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusReviewed  QuoteStatus = "reviewed"
	QuoteStatusQuoted    QuoteStatus = "quoted"
	QuoteStatusRejected  QuoteStatus = "rejected"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

var validQuoteStatuses = map[QuoteStatus]struct{}{
	QuoteStatusPending:   {},
	QuoteStatusReviewed:  {},
	QuoteStatusQuoted:    {},
	QuoteStatusRejected:  {},
	QuoteStatusAccepted:  {},
	QuoteStatusCancelled: {},
}

// quoteAdminTransitions covers admin-driven edits only. Accepted and cancelled
// are reached exclusively through the customer response path.
var quoteAdminTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteStatusPending:   {QuoteStatusPending, QuoteStatusReviewed, QuoteStatusQuoted, QuoteStatusRejected},
	QuoteStatusReviewed:  {QuoteStatusReviewed, QuoteStatusQuoted, QuoteStatusRejected},
	QuoteStatusQuoted:    {QuoteStatusQuoted, QuoteStatusRejected},
	QuoteStatusRejected:  {QuoteStatusRejected},
	QuoteStatusAccepted:  {},
	QuoteStatusCancelled: {},
}

func ToQuoteStatus(s string) (QuoteStatus, error) {
	status := QuoteStatus(s)
	if _, ok := validQuoteStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid quote status")
}

func (s QuoteStatus) CanAdminTransitionTo(target QuoteStatus) bool {
	for _, allowed := range quoteAdminTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s QuoteStatus) Terminal() bool {
	return s == QuoteStatusAccepted || s == QuoteStatusCancelled
}

// CustomerResponse is the tri-state answer to a quotation. The zero value is
// Undecided, a nullable boolean would hide that intent.
type CustomerResponse string

const (
	ResponseUndecided CustomerResponse = "undecided"
	ResponseAccepted  CustomerResponse = "accepted"
	ResponseDeclined  CustomerResponse = "declined"
)

func ToCustomerResponse(s string) (CustomerResponse, error) {
	switch r := CustomerResponse(s); r {
	case ResponseUndecided, ResponseAccepted, ResponseDeclined:
		return r, nil
	}

	return "", errors.New("invalid customer response")
}

type Garment string

const (
	GarmentHoodie   Garment = "hoodie"
	GarmentTShirt   Garment = "tshirt"
	GarmentTrousers Garment = "trousers"
	GarmentOther    Garment = "other"
)

var validGarments = map[Garment]struct{}{
	GarmentHoodie:   {},
	GarmentTShirt:   {},
	GarmentTrousers: {},
	GarmentOther:    {},
}

func ToGarment(s string) (Garment, error) {
	garment := Garment(s)
	if _, ok := validGarments[garment]; ok {
		return garment, nil
	}

	return "", errors.New("invalid garment type")
}
