package order

type CreateOrderReq struct {
	PackageID     int64   `json:"package_id" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=maya gcash bank_transfer cash"`
	ProofPath     *string `json:"proof_path"`
}
