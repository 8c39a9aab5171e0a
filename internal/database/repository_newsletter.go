package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/traviworld/editorial/internal/models"
)

const subscriberFields = `id, email, status, unsubscribe_token, subscribed_at, unsubscribed_at`

// ====================
// Newsletter subscribers
// ====================

// CreateSubscriber inserts a new active subscription. The email must already
// be normalized (see models.NormalizeEmail).
func (r *Repository) CreateSubscriber(ctx context.Context, email string) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{
		ID:               uuid.New(),
		Email:            email,
		Status:           models.SubscriberActive,
		UnsubscribeToken: uuid.New(),
		SubscribedAt:     time.Now(),
	}

	query := `
		INSERT INTO newsletter_subscribers (id, email, status, unsubscribe_token, subscribed_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + subscriberFields

	err := r.db.QueryRowxContext(
		ctx, query,
		subscriber.ID, subscriber.Email, subscriber.Status,
		subscriber.UnsubscribeToken, subscriber.SubscribedAt,
	).StructScan(subscriber)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	return subscriber, nil
}

// GetSubscriberByEmail retrieves a subscriber by normalized email
func (r *Repository) GetSubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{}
	query := `SELECT ` + subscriberFields + ` FROM newsletter_subscribers WHERE email = $1`

	err := r.db.GetContext(ctx, subscriber, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}

	return subscriber, nil
}

// ReactivateSubscriber flips an unsubscribed address back to active with a
// fresh unsubscribe token.
func (r *Repository) ReactivateSubscriber(ctx context.Context, id uuid.UUID) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{}
	query := `
		UPDATE newsletter_subscribers
		SET status = $2, unsubscribe_token = $3, subscribed_at = $4, unsubscribed_at = NULL
		WHERE id = $1
		RETURNING ` + subscriberFields

	err := r.db.QueryRowxContext(
		ctx, query,
		id, models.SubscriberActive, uuid.New(), time.Now(),
	).StructScan(subscriber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to reactivate subscriber: %w", err)
	}

	return subscriber, nil
}

// UnsubscribeByToken deactivates the subscription carrying the token.
// Unsubscribing twice is a no-op success.
func (r *Repository) UnsubscribeByToken(ctx context.Context, token uuid.UUID) (*models.Subscriber, error) {
	subscriber := &models.Subscriber{}
	query := `
		UPDATE newsletter_subscribers
		SET status = $2, unsubscribed_at = COALESCE(unsubscribed_at, $3)
		WHERE unsubscribe_token = $1
		RETURNING ` + subscriberFields

	err := r.db.QueryRowxContext(
		ctx, query,
		token, models.SubscriberUnsubscribed, time.Now(),
	).StructScan(subscriber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	return subscriber, nil
}

// ListSubscribers retrieves subscribers matching the filter, newest first
func (r *Repository) ListSubscribers(ctx context.Context, filter *models.SubscriberFilter) ([]models.Subscriber, error) {
	query := `SELECT ` + subscriberFields + ` FROM newsletter_subscribers`
	args := []any{}
	argPos := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argPos)
		args = append(args, filter.Status)
		argPos++
	}

	query += " ORDER BY subscribed_at DESC"

	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	subscribers := []models.Subscriber{}
	if err := r.db.SelectContext(ctx, &subscribers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	return subscribers, nil
}

// DeleteSubscriber removes a subscriber entirely (GDPR erasure)
func (r *Repository) DeleteSubscriber(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM newsletter_subscribers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrNotFound
	}

	return nil
}
