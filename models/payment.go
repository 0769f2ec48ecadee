package models

// PaymentMethod is the tagged discriminant of a payment selection.
type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCashOnPickup PaymentMethod = "cash_on_pickup"
)

// CardInput is the raw card data supplied by the client. It only exists in
// the request path: once validated it is exchanged for a PaymentToken and
// never written to the session store.
type CardInput struct {
	Number        string `json:"number"`
	HolderName    string `json:"holder_name"`
	Expiry        string `json:"expiry"` // MM/YY
	CVV           string `json:"cvv"`
	SaveForFuture bool   `json:"save_for_future"`
}

// PaymentToken is the opaque reference returned by the tokenization
// provider. Only the token and display metadata survive on the session.
type PaymentToken struct {
	Token       string `json:"token"`
	Brand       string `json:"brand,omitempty"`
	Last4       string `json:"last4,omitempty"`
	ExpiryMonth int    `json:"expiry_month,omitempty"`
	ExpiryYear  int    `json:"expiry_year,omitempty"`
}

// PaymentSelection is what the session persists: the chosen method and, for
// card payments, the tokenized reference.
type PaymentSelection struct {
	Method        PaymentMethod `json:"method"`
	Card          *PaymentToken `json:"card,omitempty"`
	SaveForFuture bool          `json:"save_for_future,omitempty"`
}
