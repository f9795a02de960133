package database

import (
	"github.com/vitafit/payment-service/internal/adapter/repository"
	"github.com/vitafit/payment-service/internal/config"
	domainRepo "github.com/vitafit/payment-service/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Subscription domainRepo.SubscriptionRepository
	WebhookEvent domainRepo.WebhookEventRepository
	Identity     domainRepo.IdentityRepository
}

// NewRepositories creates new repository instances. Subscription and webhook
// audit rows live in the service-owned database; identity lookups go to the
// platform's Supabase REST API.
func NewRepositories(db *gorm.DB, supabase *config.SupabaseConfig, logger *zap.Logger) *Repositories {
	return &Repositories{
		Subscription: repository.NewSubscriptionRepository(db, logger),
		WebhookEvent: repository.NewWebhookEventRepository(db, logger),
		Identity:     repository.NewSupabaseIdentityRepository(supabase.ProjectURL, supabase.APIKey, logger),
	}
}
