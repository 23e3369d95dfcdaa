package cli

import (
	"fraudlabs-cli/internal/fraudlabs"
	"fraudlabs-cli/internal/history"
	"fraudlabs-cli/internal/shopify"

	"github.com/spf13/cobra"
)

func (a *App) newOrderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Order fraud screening",
	}
	cmd.AddCommand(a.newOrderScreenCommand(), a.newOrderFeedbackCommand())
	return cmd
}

func (a *App) newOrderScreenCommand() *cobra.Command {
	var (
		req          fraudlabs.ScreenRequest
		shopifyOrder string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Screen an order for fraud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			if shopifyOrder != "" {
				o, err := shopify.ReadFile(shopifyOrder, cmd.InOrStdin())
				if err != nil {
					return err
				}
				req = mergeScreen(o.ScreenRequest(), req)
			}

			ctx := cmd.Context()
			resp, err := a.call("Screening order for fraud...", func() (*fraudlabs.Response, error) {
				return a.client().ScreenOrder(ctx, req)
			})
			if err != nil {
				return err
			}

			score, _ := resp.String("fraudlabspro_score")
			a.record(ctx, history.Entry{
				Operation: history.OpOrderScreen,
				Reference: orDefault(resp, req.OrderID, "fraudlabspro_id", "request_id"),
				Status:    orDefault(resp, "", "fraudlabspro_status"),
				Score:     score,
			}, resp)

			if asJSON {
				return a.out.Response(resp)
			}
			a.out.renderScreen(resp)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.IPAddress, "ip", "", "customer IP address")
	f.StringVar(&req.OrderID, "order-id", "", "order ID")
	f.StringVar(&req.Amount, "amount", "", "order amount, sent as given (0 is treated as not provided)")
	f.StringVar(&req.Currency, "currency", "", "currency code (e.g. USD, EUR)")
	f.StringVar(&req.Quantity, "quantity", "", "order quantity, sent as given (0 is treated as not provided)")
	f.StringVar(&req.PaymentMethod, "payment-method", "", "payment method (creditcard|paypal|googlepay|applepay)")
	f.StringVar(&req.CardNumber, "card-number", "", "card number or BIN")
	f.StringVar(&req.CardHash, "card-hash", "", "hashed card number")
	f.StringVar(&req.Email, "email", "", "customer email")
	f.StringVar(&req.EmailHash, "email-hash", "", "hashed customer email")
	f.StringVar(&req.FirstName, "first-name", "", "customer first name")
	f.StringVar(&req.LastName, "last-name", "", "customer last name")
	f.StringVar(&req.Phone, "phone", "", "customer phone")
	f.StringVar(&req.Billing.Address, "bill-address", "", "billing address")
	f.StringVar(&req.Billing.City, "bill-city", "", "billing city")
	f.StringVar(&req.Billing.State, "bill-state", "", "billing state")
	f.StringVar(&req.Billing.Country, "bill-country", "", "billing country code")
	f.StringVar(&req.Billing.Zip, "bill-zip", "", "billing ZIP")
	f.StringVar(&req.Shipping.Address, "ship-address", "", "shipping address")
	f.StringVar(&req.Shipping.City, "ship-city", "", "shipping city")
	f.StringVar(&req.Shipping.State, "ship-state", "", "shipping state")
	f.StringVar(&req.Shipping.Country, "ship-country", "", "shipping country code")
	f.StringVar(&req.Shipping.Zip, "ship-zip", "", "shipping ZIP")
	f.StringVar(&shopifyOrder, "shopify-order", "", "prefill from a Shopify order JSON file (- for stdin); flags override it")
	f.BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

// mergeScreen overlays every non-empty field of override onto base.
func mergeScreen(base, override fraudlabs.ScreenRequest) fraudlabs.ScreenRequest {
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	addr := func(dst *fraudlabs.Address, v fraudlabs.Address) {
		str(&dst.Address, v.Address)
		str(&dst.City, v.City)
		str(&dst.State, v.State)
		str(&dst.Country, v.Country)
		str(&dst.Zip, v.Zip)
	}

	out := base
	str(&out.IPAddress, override.IPAddress)
	str(&out.OrderID, override.OrderID)
	str(&out.Amount, override.Amount)
	str(&out.Currency, override.Currency)
	str(&out.Quantity, override.Quantity)
	str(&out.PaymentMethod, override.PaymentMethod)
	str(&out.CardNumber, override.CardNumber)
	str(&out.CardHash, override.CardHash)
	str(&out.Email, override.Email)
	str(&out.EmailHash, override.EmailHash)
	str(&out.FirstName, override.FirstName)
	str(&out.LastName, override.LastName)
	str(&out.Phone, override.Phone)
	addr(&out.Billing, override.Billing)
	addr(&out.Shipping, override.Shipping)
	return out
}

func (a *App) newOrderFeedbackCommand() *cobra.Command {
	var (
		req    fraudlabs.FeedbackRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Submit feedback on a screened order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			ctx := cmd.Context()
			resp, err := a.call("Submitting feedback...", func() (*fraudlabs.Response, error) {
				return a.client().SubmitFeedback(ctx, req)
			})
			if err != nil {
				return err
			}

			a.record(ctx, history.Entry{
				Operation: history.OpOrderFeedback,
				Reference: req.FraudID,
				Status:    orDefault(resp, req.Action, "fraudlabspro_status"),
			}, resp)

			if asJSON {
				return a.out.Response(resp)
			}
			a.out.Success("Feedback submitted for " + req.FraudID)
			a.out.Row("Action:", req.Action)
			a.out.Blank()
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.FraudID, "id", "", "FraudLabs Pro fraud ID (required)")
	f.StringVar(&req.Action, "action", "", "feedback action (APPROVE|REJECT|REJECT_BLACKLIST) (required)")
	f.StringVar(&req.Note, "note", "", "additional notes")
	f.BoolVar(&asJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}
