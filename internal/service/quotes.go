package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/caicai-studio/atelier/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuoteService runs the tailoring-request workflow: customer submission,
// admin review and quotation, customer accept or decline. Accepted and
// cancelled are terminal, such a request is immutable to administrators.
type QuoteService struct {
	pool   *pgxpool.Pool
	quotes port.QuoteRepository
}

func NewQuotes(pool *pgxpool.Pool, quotes port.QuoteRepository) *QuoteService {
	return &QuoteService{
		pool:   pool,
		quotes: quotes,
	}
}

// Submit stores a new request in status pending. OwnerID is set by the caller
// for authenticated customers and left nil for anonymous ones.
func (s *QuoteService) Submit(ctx context.Context, request domain.TailoringRequest) (domain.TailoringRequest, error) {
	var zero domain.TailoringRequest

	if request.Name == "" {
		return zero, domain.Validationf("name is required")
	}
	if _, err := mail.ParseAddress(request.Email); err != nil {
		return zero, domain.Validationf("email %q is not valid", request.Email)
	}
	if request.Phone == "" {
		return zero, domain.Validationf("phone is required")
	}
	if _, err := domain.ToGarment(string(request.Garment)); err != nil {
		return zero, domain.Validationf("garment type %q is not valid", request.Garment)
	}
	if request.DesignNotes == "" {
		return zero, domain.Validationf("design description is required")
	}

	request.Status = domain.QuoteStatusPending
	request.Response = domain.ResponseUndecided
	request.QuotedAmount = nil

	requestID, err := s.quotes.InsertRequest(ctx, request)
	if err != nil {
		return zero, fmt.Errorf("quotes.InsertRequest: %w", err)
	}
	request.ID = requestID

	slog.Info("tailoring request submitted", "request_id", requestID, "garment", request.Garment)

	return request, nil
}

// Review is the admin-side operation: set status and notes, and when moving
// into quoted, the amount, atomically. Accepted and cancelled targets are
// reserved for the customer response and rejected here outright.
func (s *QuoteService) Review(ctx context.Context, requestID uuid.UUID, target domain.QuoteStatus, notes string, amount *domain.Money) (domain.TailoringRequest, error) {
	var zero domain.TailoringRequest

	if _, err := domain.ToQuoteStatus(string(target)); err != nil {
		return zero, domain.Validationf("invalid target status %q", target)
	}

	if target == domain.QuoteStatusAccepted || target == domain.QuoteStatusCancelled {
		return zero, domain.Validationf("status %s is reserved for the customer response", target)
	}

	request, err := runInTx(ctx, s.pool, func(tx pgx.Tx) (domain.TailoringRequest, error) {
		quotes := repository.NewQuoteWithTx(tx)
		audit := repository.NewAuditWithTx(tx)

		request, err := quotes.GetRequest(ctx, requestID)
		if err != nil {
			return zero, fmt.Errorf("quotes.GetRequest: %w", err)
		}

		if request.Status.Terminal() {
			return zero, domain.Conflictf("request %s is %s and can no longer be edited", requestID, request.Status)
		}

		if !request.Status.CanAdminTransitionTo(target) {
			return zero, domain.Validationf("request %s cannot transition from %s to %s", requestID, request.Status, target)
		}

		response := request.Response
		var quotedAmount *domain.Money

		if target == domain.QuoteStatusQuoted {
			if amount == nil || !amount.IsPositive() {
				return zero, domain.Validationf("a positive quoted amount is required to quote")
			}
			quotedAmount = amount
			// A fresh quote invalidates any stale customer answer.
			response = domain.ResponseUndecided
		}

		if err := quotes.UpdateReview(ctx, requestID, target, notes, quotedAmount, response); err != nil {
			return zero, fmt.Errorf("quotes.UpdateReview: %w", err)
		}

		action := fmt.Sprintf("tailoring request %s -> %s", requestID, target)
		if err := audit.Record(ctx, request.Name, request.Email, action); err != nil {
			return zero, fmt.Errorf("audit.Record: %w", err)
		}

		request.Status = target
		request.AdminNotes = notes
		request.Response = response
		if quotedAmount != nil {
			request.QuotedAmount = quotedAmount
		}

		return request, nil
	})
	if err != nil {
		return zero, err
	}

	slog.Info("tailoring request reviewed", "request_id", requestID, "status", target)

	return request, nil
}

// Respond records the customer's answer to a quotation. Only the owning
// customer may respond, only while the request is quoted with an amount
// present, and the resulting status is terminal.
func (s *QuoteService) Respond(ctx context.Context, requestID uuid.UUID, customer domain.Customer, accept bool) (domain.TailoringRequest, error) {
	var zero domain.TailoringRequest

	request, err := runInTx(ctx, s.pool, func(tx pgx.Tx) (domain.TailoringRequest, error) {
		quotes := repository.NewQuoteWithTx(tx)
		audit := repository.NewAuditWithTx(tx)

		request, err := quotes.GetRequest(ctx, requestID)
		if err != nil {
			return zero, fmt.Errorf("quotes.GetRequest: %w", err)
		}

		if !request.OwnedBy(customer) {
			return zero, domain.Conflictf("customer is not authorized to respond to request %s", requestID)
		}

		if request.Status != domain.QuoteStatusQuoted {
			return zero, domain.Conflictf("request %s is %s, only a quoted request accepts a response", requestID, request.Status)
		}

		// The quoting transition guarantees an amount, re-checked here anyway.
		if request.QuotedAmount == nil {
			return zero, domain.Conflictf("request %s has no quoted amount", requestID)
		}

		status := domain.QuoteStatusCancelled
		response := domain.ResponseDeclined
		if accept {
			status = domain.QuoteStatusAccepted
			response = domain.ResponseAccepted
		}

		if err := quotes.UpdateCustomerResponse(ctx, requestID, status, response); err != nil {
			return zero, fmt.Errorf("quotes.UpdateCustomerResponse: %w", err)
		}

		action := fmt.Sprintf("quote %s %s by customer", requestID, response)
		if err := audit.Record(ctx, request.Name, request.Email, action); err != nil {
			return zero, fmt.Errorf("audit.Record: %w", err)
		}

		request.Status = status
		request.Response = response

		return request, nil
	})
	if err != nil {
		return zero, err
	}

	slog.Info("quote response recorded", "request_id", requestID, "response", request.Response)

	return request, nil
}

// ListForCustomer returns the customer's own requests, authenticated ones by
// owner reference plus anonymous ones matching the contact email.
func (s *QuoteService) ListForCustomer(ctx context.Context, customer domain.Customer) ([]domain.TailoringRequest, error) {
	requests, err := s.quotes.ListRequestsForOwner(ctx, customer.ID, customer.Email)
	if err != nil {
		return nil, fmt.Errorf("quotes.ListRequestsForOwner: %w", err)
	}

	return requests, nil
}
