package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SSLCommerz gateway endpoints
const (
	SSLCommerzSandboxBase = "https://sandbox.sslcommerz.com"
	SSLCommerzLiveBase    = "https://securepay.sslcommerz.com"
)

// SSLCommerzClient is a thin client over the SSLCommerz hosted checkout
// API: session creation and transaction validation.
type SSLCommerzClient struct {
	BaseURL    string
	StoreID    string
	StorePass  string
	HTTPClient *http.Client
}

// NewSSLCommerzClient creates a gateway client for the given store
func NewSSLCommerzClient(storeID, storePass string, sandbox bool) *SSLCommerzClient {
	base := SSLCommerzLiveBase
	if sandbox {
		base = SSLCommerzSandboxBase
	}
	return &SSLCommerzClient{
		BaseURL:    base,
		StoreID:    storeID,
		StorePass:  storePass,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SSLCommerzSessionRequest carries the fields for a hosted checkout
// session. ValueA through ValueD are the gateway's opaque pass-through
// fields used to round-trip local record ids through the redirect.
type SSLCommerzSessionRequest struct {
	Amount        float64
	Currency      string
	TransactionID string
	SuccessURL    string
	FailURL       string
	CancelURL     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ProductName   string
	ValueA        string // enrollment id
	ValueB        string // course id
	ValueC        string // user id
	ValueD        string // coupon id, empty when no coupon was applied
}

// SSLCommerzSessionResponse is the gateway's session creation response
type SSLCommerzSessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

// SSLCommerzValidationResponse is the gateway's transaction validation
// response for a val_id
type SSLCommerzValidationResponse struct {
	Status        string `json:"status"` // VALID, VALIDATED, INVALID
	TransactionID string `json:"tran_id"`
	ValID         string `json:"val_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	BankTranID    string `json:"bank_tran_id"`
	CardType      string `json:"card_type"`
	ValueA        string `json:"value_a"`
	ValueB        string `json:"value_b"`
	ValueC        string `json:"value_c"`
	ValueD        string `json:"value_d"`
}

// Confirmed reports whether the validation response marks the transaction
// as paid. SSLCommerz returns VALID on first validation and VALIDATED on
// repeats of an already validated transaction.
func (r *SSLCommerzValidationResponse) Confirmed() bool {
	return r.Status == "VALID" || r.Status == "VALIDATED"
}

// CreateSession opens a hosted checkout session and returns the gateway
// redirect URL. The raw response body is returned alongside so callers can
// retain it for reconciliation.
func (c *SSLCommerzClient) CreateSession(req *SSLCommerzSessionRequest) (*SSLCommerzSessionResponse, string, error) {
	form := url.Values{}
	form.Set("store_id", c.StoreID)
	form.Set("store_passwd", c.StorePass)
	form.Set("total_amount", fmt.Sprintf("%.2f", req.Amount))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("cus_name", req.CustomerName)
	form.Set("cus_email", req.CustomerEmail)
	form.Set("cus_phone", req.CustomerPhone)
	form.Set("cus_add1", "N/A")
	form.Set("cus_city", "N/A")
	form.Set("cus_country", "Bangladesh")
	form.Set("shipping_method", "NO")
	form.Set("num_of_item", "1")
	form.Set("product_name", req.ProductName)
	form.Set("product_category", "Course")
	form.Set("product_profile", "non-physical-goods")
	form.Set("value_a", req.ValueA)
	form.Set("value_b", req.ValueB)
	form.Set("value_c", req.ValueC)
	form.Set("value_d", req.ValueD)

	resp, err := c.HTTPClient.Post(
		c.BaseURL+"/gwprocess/v4/api.php",
		"application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, "", fmt.Errorf("gateway session request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read gateway response: %w", err)
	}

	var session SSLCommerzSessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, string(body), fmt.Errorf("failed to parse gateway response: %w", err)
	}

	if session.Status != "SUCCESS" {
		return &session, string(body), fmt.Errorf("gateway rejected session: %s", session.FailedReason)
	}

	return &session, string(body), nil
}

// ValidateTransaction asks the gateway's validator API about a val_id
// received from an IPN or redirect callback.
func (c *SSLCommerzClient) ValidateTransaction(valID string) (*SSLCommerzValidationResponse, string, error) {
	query := url.Values{}
	query.Set("val_id", valID)
	query.Set("store_id", c.StoreID)
	query.Set("store_passwd", c.StorePass)
	query.Set("format", "json")
	query.Set("v", "1")

	resp, err := c.HTTPClient.Get(c.BaseURL + "/validator/api/validationserverAPI.php?" + query.Encode())
	if err != nil {
		return nil, "", fmt.Errorf("gateway validation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read validation response: %w", err)
	}

	var validation SSLCommerzValidationResponse
	if err := json.Unmarshal(body, &validation); err != nil {
		return nil, string(body), fmt.Errorf("failed to parse validation response: %w", err)
	}

	return &validation, string(body), nil
}
