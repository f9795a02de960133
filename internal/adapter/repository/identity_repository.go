package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	domainRepo "github.com/vitafit/payment-service/internal/domain/repository"
	"go.uber.org/zap"
)

// SupabaseIdentityRepository resolves payer identity against the platform's
// Supabase-owned tables (profiles, user_subscriptions) over the REST API.
// This service never writes to either table.
type SupabaseIdentityRepository struct {
	client  *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// NewSupabaseIdentityRepository creates a new Supabase identity repository
func NewSupabaseIdentityRepository(baseURL, apiKey string, logger *zap.Logger) domainRepo.IdentityRepository {
	return &SupabaseIdentityRepository{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// FindUserIDByEmail looks a user id up in profiles, "" if no match
func (r *SupabaseIdentityRepository) FindUserIDByEmail(ctx context.Context, email string) (string, error) {
	rows, err := r.query(ctx, "profiles", url.Values{
		"email":  []string{"eq." + email},
		"select": []string{"user_id"},
		"limit":  []string{"1"},
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].UserID, nil
}

// FindUserIDBySubscriptionEmail looks a user id up in the legacy
// user_subscriptions table, "" if no match
func (r *SupabaseIdentityRepository) FindUserIDBySubscriptionEmail(ctx context.Context, email string) (string, error) {
	rows, err := r.query(ctx, "user_subscriptions", url.Values{
		"email":  []string{"eq." + email},
		"select": []string{"user_id"},
		"limit":  []string{"1"},
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].UserID, nil
}

// GetDisplayName returns the profile display name for a user, "" if the
// profile is missing or has none
func (r *SupabaseIdentityRepository) GetDisplayName(ctx context.Context, userID string) (string, error) {
	rows, err := r.query(ctx, "profiles", url.Values{
		"user_id": []string{"eq." + userID},
		"select":  []string{"user_id,display_name"},
		"limit":   []string{"1"},
	})
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].DisplayName, nil
}

type identityRow struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

func (r *SupabaseIdentityRepository) query(ctx context.Context, table string, params url.Values) ([]identityRow, error) {
	queryURL := fmt.Sprintf("%s/rest/v1/%s?%s", r.baseURL, table, params.Encode())

	r.logger.Debug("SupabaseIdentity: Querying table",
		zap.String("table", table),
		zap.String("query_url", queryURL),
		zap.String("step", "identity_query"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("SupabaseIdentity: HTTP request failed",
			zap.String("table", table),
			zap.String("step", "identity_query"),
			zap.Error(err))
		return nil, fmt.Errorf("supabase request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errorBody []byte
		if resp.Body != nil {
			errorBody, _ = io.ReadAll(resp.Body)
		}
		r.logger.Warn("SupabaseIdentity: Supabase API returned non-200 status",
			zap.String("table", table),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", errorBody),
			zap.String("step", "identity_query"))
		return nil, fmt.Errorf("supabase API error: status %d", resp.StatusCode)
	}

	var rows []identityRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		r.logger.Error("SupabaseIdentity: Failed to decode JSON response",
			zap.String("table", table),
			zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return rows, nil
}
