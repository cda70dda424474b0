package repository

import (
	"context"
	"fmt"
)

// The user_tokens table is the server-side authority on token validity.
// These methods satisfy auth.TokenStore.

// AddToken appends a token to the user's active list.
func (r *Repository) AddToken(ctx context.Context, userID, token string) error {
	query := `
		INSERT INTO user_tokens (user_id, token, created_at)
		VALUES ($1, $2, now())
	`

	if _, err := r.pool.Exec(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to add token: %w", err)
	}

	return nil
}

// RemoveToken deletes exactly the given token from the user's active list.
// Removing a token that is already absent is not an error.
func (r *Repository) RemoveToken(ctx context.Context, userID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`

	if _, err := r.pool.Exec(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	return nil
}

// RemoveAllTokens clears the user's entire active token list.
func (r *Repository) RemoveAllTokens(ctx context.Context, userID string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`

	if _, err := r.pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to remove all tokens: %w", err)
	}

	return nil
}

// CountTokens returns how many active tokens the user has.
func (r *Repository) CountTokens(ctx context.Context, userID string) (int, error) {
	query := `SELECT count(*) FROM user_tokens WHERE user_id = $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count tokens: %w", err)
	}

	return count, nil
}
