package config

type ServiceConfig struct {
	Name        string            `yaml:"name" validate:"required"`
	Environment string            `yaml:"environment"`
	Version     string            `yaml:"version"`
	ClientURL   string            `yaml:"client_url"`
	MercadoPago MercadoPagoConfig `yaml:"mercadopago"`
	Supabase    SupabaseConfig    `yaml:"supabase" validate:"required"`
}

type MercadoPagoConfig struct {
	// BaseURL is overridable for tests; empty means the production API
	BaseURL string `yaml:"base_url"`
	// AccessToken authorizes payment lookups; reconciliation hard-fails without it
	AccessToken string `yaml:"access_token"`
	// WebhookSecret enables signature verification; empty means lenient mode
	WebhookSecret string `yaml:"webhook_secret"`
}

type SupabaseConfig struct {
	ProjectURL string `yaml:"project_url" validate:"required,url"`
	APIKey     string `yaml:"api_key" validate:"required"`
	JWTSecret  string `yaml:"jwt_secret" validate:"required"`
}

type SMTPConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	FromAddress string `yaml:"from_address"`
}
