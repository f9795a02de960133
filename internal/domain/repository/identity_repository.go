package repository

import "context"

// Profile is the slice of the platform's profiles table this service reads
type Profile struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	UserType    string `json:"user_type"`
}

// IdentityRepository resolves payer identity against the platform's user
// directory (Supabase-owned tables, read only from here).
type IdentityRepository interface {
	// FindUserIDByEmail looks a user id up in profiles, "" if no match
	FindUserIDByEmail(ctx context.Context, email string) (string, error)

	// FindUserIDBySubscriptionEmail looks a user id up in the legacy
	// user_subscriptions table, "" if no match
	FindUserIDBySubscriptionEmail(ctx context.Context, email string) (string, error)

	// GetDisplayName returns the profile display name for a user, "" if the
	// profile is missing or has none
	GetDisplayName(ctx context.Context, userID string) (string, error)
}
