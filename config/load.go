package config

import (
	"log/slog"
	"os"
)

func Load() App {
	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		CronSecret:  os.Getenv("CRON_SECRET"),
		Env:         getenv("APP_ENV", "dev"),

		RedisURL: os.Getenv("REDIS_URL"),

		MayaPublicKey:    os.Getenv("MAYA_PUBLIC_KEY"),
		MayaCheckoutURL:  getenv("MAYA_CHECKOUT_URL", "https://pg-sandbox.paymaya.com/checkout/v1/checkouts"),
		CheckoutRedirect: os.Getenv("CHECKOUT_REDIRECT_URL"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		ProofBucket:    getenv("PROOF_BUCKET", "payment-proofs"),

		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  getenv("SMTP_PORT", "587"),
		SMTPUser:  os.Getenv("SMTP_USER"),
		SMTPPass:  os.Getenv("SMTP_PASS"),
		EmailFrom: getenv("EMAIL_FROM", "8clublagree@gmail.com"),
		AdminMail: os.Getenv("ADMIN_EMAIL"),

		AMQPURL:    os.Getenv("AMQP_URL"),
		EmailQueue: getenv("EMAIL_QUEUE", "studio.emails"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
