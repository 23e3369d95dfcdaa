package fraudlabs

import (
	"net/url"
	"strconv"
	"strings"
)

// Feedback actions accepted by /order/feedback.
const (
	ActionApprove         = "APPROVE"
	ActionReject          = "REJECT"
	ActionRejectBlacklist = "REJECT_BLACKLIST"
)

// Message types accepted by /verification/send.
const (
	MessageTypeSMS   = "SMS"
	MessageTypeVoice = "VOICE"
)

// Address is a billing or shipping address on a screened order.
type Address struct {
	Address string
	City    string
	State   string
	Country string // ISO-3166 alpha-2
	Zip     string
}

// ScreenRequest holds the order and customer attributes sent to /order/screen.
// Every field is optional; empty ones never reach the wire.
type ScreenRequest struct {
	IPAddress     string
	OrderID       string
	Amount        string // sent as given
	Currency      string
	Quantity      string // sent as given
	PaymentMethod string // creditcard, paypal, googlepay, applepay...
	CardNumber    string
	CardHash      string
	Email         string
	EmailHash     string
	FirstName     string
	LastName      string
	Phone         string

	Billing  Address
	Shipping Address
}

// Values maps the request onto the /order/screen query vocabulary.
//
// Amount and quantity that parse as numeric zero are treated like absent values
// and dropped, matching the behavior existing integrations rely on. Any other
// text is sent verbatim.
func (r ScreenRequest) Values() url.Values {
	v := url.Values{}
	setIf(v, "ip", r.IPAddress)
	setIf(v, "order_id", r.OrderID)
	setIfNonZero(v, "amount", r.Amount)
	setIf(v, "currency", r.Currency)
	setIfNonZero(v, "quantity", r.Quantity)
	setIf(v, "payment_method", r.PaymentMethod)
	setIf(v, "card_number", r.CardNumber)
	setIf(v, "card_hash", r.CardHash)
	setIf(v, "email", r.Email)
	setIf(v, "email_hash", r.EmailHash)
	setIf(v, "first_name", r.FirstName)
	setIf(v, "last_name", r.LastName)
	setIf(v, "phone", r.Phone)

	setIf(v, "bill_addr", r.Billing.Address)
	setIf(v, "bill_city", r.Billing.City)
	setIf(v, "bill_state", r.Billing.State)
	setIf(v, "bill_country", r.Billing.Country)
	setIf(v, "bill_zip", r.Billing.Zip)

	setIf(v, "ship_addr", r.Shipping.Address)
	setIf(v, "ship_city", r.Shipping.City)
	setIf(v, "ship_state", r.Shipping.State)
	setIf(v, "ship_country", r.Shipping.Country)
	setIf(v, "ship_zip", r.Shipping.Zip)
	return v
}

// FeedbackRequest reports the merchant's decision on a screened order.
type FeedbackRequest struct {
	FraudID string
	Action  string // APPROVE, REJECT or REJECT_BLACKLIST
	Note    string
}

// Values always carries id and action, even when empty; the service rejects
// the call in that case.
func (r FeedbackRequest) Values() url.Values {
	v := url.Values{}
	v.Set("id", r.FraudID)
	v.Set("action", r.Action)
	setIf(v, "note", r.Note)
	return v
}

// SMSSendRequest asks the service to deliver an OTP to a phone.
type SMSSendRequest struct {
	Phone       string
	CountryCode string
	MessageType string // defaults to SMS
}

func (r SMSSendRequest) Values() url.Values {
	v := url.Values{}
	v.Set("tel", r.Phone)
	setIf(v, "country_code", r.CountryCode)
	mt := r.MessageType
	if mt == "" {
		mt = MessageTypeSMS
	}
	v.Set("mesg_type", mt)
	return v
}

// SMSVerifyRequest checks an OTP previously sent to Phone.
type SMSVerifyRequest struct {
	Phone string
	OTP   string
}

func (r SMSVerifyRequest) Values() url.Values {
	v := url.Values{}
	v.Set("tel", r.Phone)
	v.Set("otp", r.OTP)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setIfNonZero(v url.Values, key, value string) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && f == 0 {
		return
	}
	setIf(v, key, value)
}
