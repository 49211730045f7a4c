package mayarepo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/8clublagree/8clublagree/util/httpx"
)

type httpRepo struct {
	publicKey   string
	checkoutURL string
	redirectURL string
	client      *http.Client
}

// NewHTTP builds the checkout client. redirectURL is the base the gateway
// sends the payer back to after checkout; empty disables the redirect block.
func NewHTTP(publicKey, checkoutURL, redirectURL string) Repo {
	return &httpRepo{
		publicKey:   publicKey,
		checkoutURL: checkoutURL,
		redirectURL: strings.TrimRight(redirectURL, "/"),
		client:      httpx.Client(),
	}
}

func (r *httpRepo) CreateCheckout(req CreateCheckoutReq) (*CreateCheckoutResp, error) {
	currency := req.Currency
	if currency == "" {
		currency = "PHP"
	}
	body := map[string]any{
		"totalAmount": map[string]any{
			"value":    req.Amount,
			"currency": currency,
		},
		"requestReferenceNumber": req.ReferenceID,
		"items": []map[string]any{
			{
				"name":     req.Description,
				"quantity": 1,
				"totalAmount": map[string]any{
					"value": req.Amount,
				},
			},
		},
	}
	if r.redirectURL != "" {
		body["redirectUrl"] = map[string]any{
			"success": r.redirectURL + "/success",
			"failure": r.redirectURL + "/failure",
			"cancel":  r.redirectURL + "/cancel",
		}
	}
	b, _ := json.Marshal(body)
	httpReq, err := http.NewRequest(http.MethodPost, r.checkoutURL, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(r.publicKey, "")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("maya create checkout failed: %s", resp.Status)
	}

	var out struct {
		CheckoutID  string `json:"checkoutId"`
		RedirectURL string `json:"redirectUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.CheckoutID == "" {
		return nil, errors.New("maya: empty checkout id")
	}

	return &CreateCheckoutResp{CheckoutID: out.CheckoutID, CheckoutURL: out.RedirectURL}, nil
}
