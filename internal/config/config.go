package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	// DatabaseURL is the mysql DSN backing the key-value table.
	DatabaseURL string `env:"DATABASE_URL"`

	// AnonKey, when set, is the static bearer token every request must
	// carry. It authorizes calling the API at all, not per-user identity.
	AnonKey string `env:"ANON_KEY"`

	Tripay Tripay `envPrefix:"TRIPAY_"`
}

type Tripay struct {
	// Sandbox by default; production is https://tripay.co.id/api.
	BaseURL      string `env:"BASE_URL" envDefault:"https://tripay.co.id/api-sandbox"`
	MerchantCode string `env:"MERCHANT_CODE"`
	APIKey       string `env:"API_KEY"`
	PrivateKey   string `env:"PRIVATE_KEY"`
	CallbackURL  string `env:"CALLBACK_URL"`
	ReturnURL    string `env:"RETURN_URL"`
	ProductURL   string `env:"PRODUCT_URL"`
	ImageURL     string `env:"IMAGE_URL"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
