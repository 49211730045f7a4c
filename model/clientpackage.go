// model/clientpackage.go
package model

import "time"

// Package is a catalog entry; read-only reference data once purchased.
type Package struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	Credits          int     `json:"credits"`
	ValidityDays     int     `json:"validity_period"`
	OfferedToClients bool    `json:"offered_to_clients"`
}

type ClientPackageStatus string

const (
	ClientPackageActive  ClientPackageStatus = "active"
	ClientPackageExpired ClientPackageStatus = "expired"
)

type ClientPackage struct {
	ID             int64               `json:"id"`
	UserID         int64               `json:"user_id"`
	PackageID      int64               `json:"package_id"`
	PackageName    string              `json:"package_name"`
	PackageCredits int                 `json:"package_credits"`
	ValidityDays   int                 `json:"validity_period"`
	PaymentMethod  string              `json:"payment_method"`
	Status         ClientPackageStatus `json:"status"`
	PurchaseDate   time.Time           `json:"purchase_date"`
	ExpirationDate time.Time           `json:"expiration_date"`
	CreatedAt      time.Time           `json:"created_at"`
}
