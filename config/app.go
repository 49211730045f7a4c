package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	CronSecret  string `env:"CRON_SECRET"`
	Env         string `env:"APP_ENV" default:"dev"`

	RedisURL string `env:"REDIS_URL"`

	MayaPublicKey    string `env:"MAYA_PUBLIC_KEY"`
	MayaCheckoutURL  string `env:"MAYA_CHECKOUT_URL" default:"https://pg-sandbox.paymaya.com/checkout/v1/checkouts"`
	CheckoutRedirect string `env:"CHECKOUT_REDIRECT_URL"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL"`
	ProofBucket    string `env:"PROOF_BUCKET" default:"payment-proofs"`

	SMTPHost  string `env:"SMTP_HOST"`
	SMTPPort  string `env:"SMTP_PORT" default:"587"`
	SMTPUser  string `env:"SMTP_USER"`
	SMTPPass  string `env:"SMTP_PASS"`
	EmailFrom string `env:"EMAIL_FROM"`
	AdminMail string `env:"ADMIN_EMAIL"`

	AMQPURL    string `env:"AMQP_URL"`
	EmailQueue string `env:"EMAIL_QUEUE" default:"studio.emails"`
}
