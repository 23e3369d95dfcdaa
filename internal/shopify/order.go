// Package shopify turns a Shopify orders/create webhook payload into a
// screening request.
package shopify

import (
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"fraudlabs-cli/internal/fraudlabs"

	"github.com/pkg/errors"
)

// Address is a subset of the Shopify address object.
type Address struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	Province     string `json:"province"`
	ProvinceCode string `json:"province_code"`
	Zip          string `json:"zip"`
	CountryCode  string `json:"country_code"`
}

// Customer is a subset of the Shopify customer object.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type LineItem struct {
	Quantity int `json:"quantity"`
}

// Order is the subset of the orders/create payload used for screening.
type Order struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	BrowserIP           string     `json:"browser_ip"`
	TotalPrice          string     `json:"total_price"`
	Currency            string     `json:"currency"`
	PaymentGatewayNames []string   `json:"payment_gateway_names"`
	LineItems           []LineItem `json:"line_items"`
	BillingAddress      *Address   `json:"billing_address"`
	ShippingAddress     *Address   `json:"shipping_address"`
	Customer            *Customer  `json:"customer"`
}

func Decode(r io.Reader) (Order, error) {
	var o Order
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return Order{}, errors.Wrap(err, "shopify: decode order")
	}
	return o, nil
}

// ReadFile decodes the order at path; "-" reads stdin.
func ReadFile(path string, stdin io.Reader) (Order, error) {
	if path == "-" {
		return Decode(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return Order{}, errors.Wrap(err, "shopify: open order")
	}
	defer f.Close()
	return Decode(f)
}

// ScreenRequest maps the order onto the screening vocabulary. total_price is
// passed through as Shopify formats it.
func (o Order) ScreenRequest() fraudlabs.ScreenRequest {
	first, last := customerName(o)
	return fraudlabs.ScreenRequest{
		IPAddress:     o.BrowserIP,
		OrderID:       orderID(o),
		Amount:        o.TotalPrice,
		Currency:      o.Currency,
		Quantity:      quantity(o),
		PaymentMethod: paymentMethod(o.PaymentGatewayNames),
		Email:         customerEmail(o),
		FirstName:     first,
		LastName:      last,
		Phone:         customerPhone(o),
		Billing:       address(o.BillingAddress),
		Shipping:      address(o.ShippingAddress),
	}
}

func orderID(o Order) string {
	if o.Name != "" {
		return o.Name
	}
	if o.ID != 0 {
		return strconv.FormatInt(o.ID, 10)
	}
	return ""
}

func quantity(o Order) string {
	n := 0
	for _, li := range o.LineItems {
		n += li.Quantity
	}
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// customerName prefers the billing name, then the customer record, then shipping.
func customerName(o Order) (string, string) {
	if a := o.BillingAddress; a != nil && (strings.TrimSpace(a.FirstName) != "" || strings.TrimSpace(a.LastName) != "") {
		return strings.TrimSpace(a.FirstName), strings.TrimSpace(a.LastName)
	}
	if c := o.Customer; c != nil && (strings.TrimSpace(c.FirstName) != "" || strings.TrimSpace(c.LastName) != "") {
		return strings.TrimSpace(c.FirstName), strings.TrimSpace(c.LastName)
	}
	if a := o.ShippingAddress; a != nil {
		return strings.TrimSpace(a.FirstName), strings.TrimSpace(a.LastName)
	}
	return "", ""
}

func customerEmail(o Order) string {
	if o.Email != "" {
		return o.Email
	}
	if o.Customer != nil {
		return o.Customer.Email
	}
	return ""
}

func customerPhone(o Order) string {
	switch {
	case o.Phone != "":
		return o.Phone
	case o.BillingAddress != nil && o.BillingAddress.Phone != "":
		return o.BillingAddress.Phone
	case o.ShippingAddress != nil && o.ShippingAddress.Phone != "":
		return o.ShippingAddress.Phone
	case o.Customer != nil:
		return o.Customer.Phone
	}
	return ""
}

func paymentMethod(gateways []string) string {
	for _, g := range gateways {
		name := strings.ToLower(g)
		switch {
		case strings.Contains(name, "paypal"):
			return "paypal"
		case strings.Contains(name, "apple"):
			return "applepay"
		case strings.Contains(name, "google"):
			return "googlepay"
		case strings.Contains(name, "card"), name == "shopify_payments":
			return "creditcard"
		}
	}
	return ""
}

func address(a *Address) fraudlabs.Address {
	if a == nil {
		return fraudlabs.Address{}
	}
	line := strings.TrimSpace(a.Address1)
	if a2 := strings.TrimSpace(a.Address2); a2 != "" {
		line = strings.TrimSpace(line + ", " + a2)
	}
	state := a.ProvinceCode
	if state == "" {
		state = a.Province
	}
	return fraudlabs.Address{
		Address: line,
		City:    a.City,
		State:   state,
		Country: a.CountryCode,
		Zip:     a.Zip,
	}
}
