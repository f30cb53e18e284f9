package port

import (
	"context"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/google/uuid"
)

type QuoteRepository interface {
	GetRequest(ctx context.Context, requestID uuid.UUID) (domain.TailoringRequest, error)

	ListRequestsForOwner(ctx context.Context, ownerID, email string) ([]domain.TailoringRequest, error)

	InsertRequest(ctx context.Context, request domain.TailoringRequest) (uuid.UUID, error)

	// UpdateReview persists the admin-side fields in one statement. The
	// quotation amount travels with the transition into quoted, a nil amount
	// leaves the stored one untouched.
	UpdateReview(ctx context.Context, requestID uuid.UUID, status domain.QuoteStatus, adminNotes string, quotedAmount *domain.Money, response domain.CustomerResponse) error

	UpdateCustomerResponse(ctx context.Context, requestID uuid.UUID, status domain.QuoteStatus, response domain.CustomerResponse) error
}
