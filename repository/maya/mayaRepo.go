package mayarepo

type CreateCheckoutReq struct {
	ReferenceID string
	Amount      float64
	Currency    string
	Description string
}

type CreateCheckoutResp struct {
	CheckoutID  string
	CheckoutURL string
}

type Repo interface {
	CreateCheckout(req CreateCheckoutReq) (*CreateCheckoutResp, error)
}
