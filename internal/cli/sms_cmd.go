package cli

import (
	"fmt"

	"fraudlabs-cli/internal/fraudlabs"
	"fraudlabs-cli/internal/history"

	"github.com/spf13/cobra"
)

// otpFound is the verify result that means the code matched.
const otpFound = "found"

func (a *App) newSMSCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms",
		Short: "SMS verification",
	}
	cmd.AddCommand(a.newSMSSendCommand(), a.newSMSVerifyCommand())
	return cmd
}

func (a *App) newSMSSendCommand() *cobra.Command {
	var (
		req    fraudlabs.SMSSendRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send an SMS verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			ctx := cmd.Context()
			resp, err := a.call("Sending verification code...", func() (*fraudlabs.Response, error) {
				return a.client().SendSMSVerification(ctx, req)
			})
			if err != nil {
				return err
			}

			a.record(ctx, history.Entry{
				Operation: history.OpSMSSend,
				Reference: req.Phone,
				Status:    "sent",
			}, resp)

			if asJSON {
				return a.out.Response(resp)
			}
			a.out.Success("SMS verification code sent")
			if id := orDefault(resp, "", "request_id", "tran_id"); id != "" {
				a.out.Row("Request ID:", a.out.cyan.Sprint(id))
			}
			a.out.Blank()
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Phone, "phone", "", "phone number in E.164 format (required)")
	f.StringVar(&req.CountryCode, "country-code", "", "ISO-3166 country code")
	f.StringVar(&req.MessageType, "type", fraudlabs.MessageTypeSMS, "message type (SMS|VOICE)")
	f.BoolVar(&asJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("phone")
	return cmd
}

func (a *App) newSMSVerifyCommand() *cobra.Command {
	var (
		req    fraudlabs.SMSVerifyRequest
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify an SMS OTP code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			ctx := cmd.Context()
			resp, err := a.call("Verifying code...", func() (*fraudlabs.Response, error) {
				return a.client().VerifySMSCode(ctx, req)
			})
			if err != nil {
				return err
			}

			result, _ := resp.String("result")
			a.record(ctx, history.Entry{
				Operation: history.OpSMSVerify,
				Reference: req.Phone,
				Status:    result,
			}, resp)

			if asJSON {
				return a.out.Response(resp)
			}
			if result != otpFound {
				if result == "" {
					result = "Invalid code"
				}
				return fmt.Errorf("OTP verification failed: %s", result)
			}
			a.out.Success("OTP verified successfully")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Phone, "phone", "", "phone number (required)")
	f.StringVar(&req.OTP, "otp", "", "OTP code to verify (required)")
	f.BoolVar(&asJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("otp")
	return cmd
}
