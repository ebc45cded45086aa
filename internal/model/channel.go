package model

// Fee is one side of a channel's fee structure. Flat is in the smallest
// currency unit, Percent is a percentage of the amount (may be fractional).
type Fee struct {
	Flat    int     `json:"flat"`
	Percent float64 `json:"percent"`
}

// Channel is a payment method offered by the gateway. Channels are fetched
// live and never persisted.
type Channel struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	FeeMerchant Fee    `json:"fee_merchant"`
	FeeCustomer Fee    `json:"fee_customer"`
	TotalFee    Fee    `json:"total_fee"`
	MinimumFee  int    `json:"minimum_fee"`
	MaximumFee  int    `json:"maximum_fee"`
	IconURL     string `json:"icon_url"`
	Active      bool   `json:"active"`
}

// PaymentData is the decoded form of the gateway's payment instructions,
// used by clients to render the payment step. The server stores the raw
// gateway payload instead so channel-specific fields survive untouched.
type PaymentData struct {
	Reference   string `json:"reference"`
	MerchantRef string `json:"merchant_ref"`
	Method      string `json:"payment_method"`
	MethodName  string `json:"payment_name"`
	Amount      int    `json:"amount"`
	FeeCustomer int    `json:"fee_customer"`
	TotalAmount int    `json:"amount_received"`
	PayCode     string `json:"pay_code,omitempty"`
	QRString    string `json:"qr_string,omitempty"`
	QRURL       string `json:"qr_url,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	ExpiredTime int64  `json:"expired_time"`
}
