package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/caicai-studio/atelier/internal/port"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

var ErrRequestNotFound = errors.New("tailoring request not found")

type quoteRepository struct {
	db DBTX
}

func NewQuote(pool *pgxpool.Pool) port.QuoteRepository {
	return &quoteRepository{db: pool}
}

func NewQuoteWithTx(tx pgx.Tx) port.QuoteRepository {
	return &quoteRepository{db: tx}
}

const selectRequest = `
	SELECT id, owner_id, name, email, phone, garment, design_notes,
	       status, admin_notes, quoted_amount::text, quoted_currency, response,
	       created_at, updated_at
	FROM tailoring_requests`

func (r *quoteRepository) GetRequest(ctx context.Context, requestID uuid.UUID) (domain.TailoringRequest, error) {
	row := r.db.QueryRow(ctx, selectRequest+` WHERE id = $1`, requestID)

	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TailoringRequest{}, fmt.Errorf("scanRequest: %w", ErrRequestNotFound)
		}
		return domain.TailoringRequest{}, fmt.Errorf("scanRequest: %w", err)
	}

	return request, nil
}

func (r *quoteRepository) ListRequestsForOwner(ctx context.Context, ownerID, email string) ([]domain.TailoringRequest, error) {
	// Authenticated submissions carry the owner reference, anonymous ones are
	// matched by contact email.
	rows, err := r.db.Query(ctx,
		selectRequest+` WHERE owner_id = $1 OR (owner_id IS NULL AND email = $2)
		 ORDER BY created_at DESC`,
		ownerID, email)
	if err != nil {
		return nil, fmt.Errorf("db.Query: %w", err)
	}
	defer rows.Close()

	var requests []domain.TailoringRequest
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanRequest: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return requests, nil
}

func (r *quoteRepository) InsertRequest(ctx context.Context, request domain.TailoringRequest) (uuid.UUID, error) {
	var requestID uuid.UUID

	var quotedAmount, quotedCurrency *string
	if request.QuotedAmount != nil {
		quotedAmount = lo.ToPtr(request.QuotedAmount.Amount.String())
		quotedCurrency = lo.ToPtr(request.QuotedAmount.Currency.String())
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO tailoring_requests
		   (owner_id, name, email, phone, garment, design_notes, status, admin_notes,
		    quoted_amount, quoted_currency, response)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		request.OwnerID, request.Name, request.Email, request.Phone,
		string(request.Garment), request.DesignNotes,
		string(statusOrPendingQuote(request.Status)), request.AdminNotes,
		quotedAmount, quotedCurrency,
		string(responseOrUndecided(request.Response)),
	).Scan(&requestID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db.QueryRow: %w", err)
	}

	return requestID, nil
}

func (r *quoteRepository) UpdateReview(ctx context.Context, requestID uuid.UUID, status domain.QuoteStatus, adminNotes string, quotedAmount *domain.Money, response domain.CustomerResponse) error {
	if requestID == uuid.Nil {
		return fmt.Errorf("requestID is empty")
	}

	var amount, currencyCode *string
	if quotedAmount != nil {
		amount = lo.ToPtr(quotedAmount.Amount.String())
		currencyCode = lo.ToPtr(quotedAmount.Currency.String())
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE tailoring_requests
		 SET status = $2, admin_notes = $3,
		     quoted_amount = COALESCE($4, quoted_amount),
		     quoted_currency = COALESCE($5, quoted_currency),
		     response = $6, updated_at = now()
		 WHERE id = $1`,
		requestID, string(status), adminNotes, amount, currencyCode, string(response))
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", ErrRequestNotFound)
	}

	return nil
}

func (r *quoteRepository) UpdateCustomerResponse(ctx context.Context, requestID uuid.UUID, status domain.QuoteStatus, response domain.CustomerResponse) error {
	if requestID == uuid.Nil {
		return fmt.Errorf("requestID is empty")
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE tailoring_requests
		 SET status = $2, response = $3, updated_at = now()
		 WHERE id = $1`,
		requestID, string(status), string(response))
	if err != nil {
		return fmt.Errorf("db.Exec: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("db.Exec: %w", ErrRequestNotFound)
	}

	return nil
}

func scanRequest(row pgx.Row) (domain.TailoringRequest, error) {
	var (
		req            domain.TailoringRequest
		garmentStr     string
		statusStr      string
		responseStr    string
		quotedAmount   *string
		quotedCurrency *string
	)

	if err := row.Scan(&req.ID, &req.OwnerID, &req.Name, &req.Email, &req.Phone,
		&garmentStr, &req.DesignNotes, &statusStr, &req.AdminNotes,
		&quotedAmount, &quotedCurrency, &responseStr,
		&req.CreatedAt, &req.UpdatedAt); err != nil {
		return req, err
	}

	garment, err := domain.ToGarment(garmentStr)
	if err != nil {
		return req, fmt.Errorf("domain.ToGarment[%s]: %w", garmentStr, err)
	}
	req.Garment = garment

	status, err := domain.ToQuoteStatus(statusStr)
	if err != nil {
		return req, fmt.Errorf("domain.ToQuoteStatus[%s]: %w", statusStr, err)
	}
	req.Status = status

	response, err := domain.ToCustomerResponse(responseStr)
	if err != nil {
		return req, fmt.Errorf("domain.ToCustomerResponse[%s]: %w", responseStr, err)
	}
	req.Response = response

	if quotedAmount != nil && quotedCurrency != nil {
		money, err := parseMoney(*quotedAmount, *quotedCurrency)
		if err != nil {
			return req, fmt.Errorf("parseMoney: %w", err)
		}
		req.QuotedAmount = &money
	}

	return req, nil
}

func statusOrPendingQuote(status domain.QuoteStatus) domain.QuoteStatus {
	if status == "" {
		return domain.QuoteStatusPending
	}
	return status
}

func responseOrUndecided(response domain.CustomerResponse) domain.CustomerResponse {
	if response == "" {
		return domain.ResponseUndecided
	}
	return response
}
