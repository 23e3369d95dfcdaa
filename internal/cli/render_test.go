package cli

import (
	"bytes"
	"testing"

	"fraudlabs-cli/internal/fraudlabs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRisk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		present bool
		want    riskBand
	}{
		{"", false, bandNone},
		{"100", true, bandHigh},
		{"75", true, bandHigh},
		{"74.9", true, bandMedium},
		{"40", true, bandMedium},
		{"39", true, bandLow},
		{"0", true, bandLow},
		{" 80 ", true, bandHigh},
		{"high", true, bandUnknown},
	}
	for _, tt := range tests {
		tt := tt
		assert.Equal(t, tt.want, classifyRisk(tt.text, tt.present), "%q", tt.text)
	}
}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, statusApprove, classifyStatus("APPROVE"))
	assert.Equal(t, statusReject, classifyStatus("REJECT"))
	assert.Equal(t, statusOther, classifyStatus("REVIEW"))
	assert.Equal(t, statusOther, classifyStatus("approve"))
	assert.Equal(t, statusOther, classifyStatus("REJECT_BLACKLIST"))
}

func decode(t *testing.T, body string) *fraudlabs.Response {
	t.Helper()
	resp, err := fraudlabs.NewResponse([]byte(body))
	require.NoError(t, err)
	return resp
}

func TestRenderScreen_Colors(t *testing.T) {
	t.Parallel()

	const (
		red    = "\x1b[31m"
		green  = "\x1b[32m"
		yellow = "\x1b[33m"
	)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{"high score is red", `{"fraudlabspro_score":"90","fraudlabspro_status":"REJECT"}`,
			[]string{red + "90", red + "REJECT"}},
		{"medium score is yellow", `{"fraudlabspro_score":50,"fraudlabspro_status":"REVIEW"}`,
			[]string{yellow + "50", yellow + "REVIEW"}},
		{"low score is green", `{"fraudlabspro_score":"5","fraudlabspro_status":"APPROVE"}`,
			[]string{green + "5", green + "APPROVE"}},
		{"proxy yes is red", `{"ip_geolocation":{"is_proxy":"Y","is_vpn":"N"}}`,
			[]string{red + "Yes", green + "No"}},
		{"valid email is green", `{"email_validation":{"is_valid":"Y","is_disposable":"Y"}}`,
			[]string{green + "Yes", red + "Yes"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			p := newPrinter(&out, &out, true)
			p.renderScreen(decode(t, tt.body))
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
		})
	}
}

func TestRenderScreen_UnparsableScoreIsPlain(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := newPrinter(&out, &out, true)
	p.renderScreen(decode(t, `{"fraudlabspro_score":"n/a-ish"}`))
	assert.Contains(t, out.String(), row("Score:", "n/a-ish"))
}

func TestMergeScreen(t *testing.T) {
	t.Parallel()

	base := fraudlabs.ScreenRequest{
		IPAddress: "1.1.1.1",
		OrderID:   "#1",
		Amount:    "10",
		Quantity:  "2",
		Email:     "a@example.com",
		Billing:   fraudlabs.Address{City: "Paris", Country: "FR"},
	}
	got := mergeScreen(base, fraudlabs.ScreenRequest{
		IPAddress: "2.2.2.2",
		Amount:    "12.50",
		Billing:   fraudlabs.Address{City: "Lyon"},
		Shipping:  fraudlabs.Address{Zip: "69001"},
	})

	assert.Equal(t, fraudlabs.ScreenRequest{
		IPAddress: "2.2.2.2",
		OrderID:   "#1",
		Amount:    "12.50",
		Quantity:  "2",
		Email:     "a@example.com",
		Billing:   fraudlabs.Address{City: "Lyon", Country: "FR"},
		Shipping:  fraudlabs.Address{Zip: "69001"},
	}, got)
}

func TestRedactDSN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "postgres://app:xxxxx@db:5432/fraud", redactDSN("postgres://app:secret@db:5432/fraud"))
	assert.Equal(t, "/var/lib/fraudlabs/history.db", redactDSN("/var/lib/fraudlabs/history.db"))
}
