package cli

import (
	"strconv"
	"strings"

	"fraudlabs-cli/internal/fraudlabs"
)

type riskBand int

const (
	bandNone    riskBand = iota // field absent
	bandUnknown                 // present but not numeric
	bandLow
	bandMedium
	bandHigh
)

// Risk thresholds shared by fraudlabspro_score and fraudlabspro_risk.
const (
	highRiskThreshold   = 75
	mediumRiskThreshold = 40
)

func classifyRisk(text string, present bool) riskBand {
	if !present {
		return bandNone
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return bandUnknown
	}
	switch {
	case v >= highRiskThreshold:
		return bandHigh
	case v >= mediumRiskThreshold:
		return bandMedium
	}
	return bandLow
}

func (p *printer) risk(resp *fraudlabs.Response, key string) string {
	text, ok := resp.String(key)
	switch classifyRisk(text, ok) {
	case bandNone:
		return p.gray.Sprint("N/A")
	case bandHigh:
		return p.red.Sprint(text)
	case bandMedium:
		return p.yellow.Sprint(text)
	case bandLow:
		return p.green.Sprint(text)
	}
	return text
}

type statusKind int

const (
	statusOther statusKind = iota
	statusApprove
	statusReject
)

func classifyStatus(s string) statusKind {
	switch s {
	case fraudlabs.ActionApprove:
		return statusApprove
	case fraudlabs.ActionReject:
		return statusReject
	}
	return statusOther
}

func (p *printer) status(resp *fraudlabs.Response) string {
	s, ok := resp.String("fraudlabspro_status")
	switch classifyStatus(s) {
	case statusApprove:
		return p.green.Sprint(s)
	case statusReject:
		return p.red.Sprint(s)
	}
	if !ok {
		s = "N/A"
	}
	return p.yellow.Sprint(s)
}

func orDefault(resp *fraudlabs.Response, def string, keys ...string) string {
	for _, k := range keys {
		if v, ok := resp.String(k); ok {
			return v
		}
	}
	return def
}

// renderScreen prints the human-readable screening summary.
func (p *printer) renderScreen(resp *fraudlabs.Response) {
	p.Title("Fraud Screening Result")
	p.Row("Fraud ID:", p.cyan.Sprint(orDefault(resp, "N/A", "fraudlabspro_id", "request_id")))
	p.Row("Status:", p.status(resp))
	p.Row("Score:", p.risk(resp, "fraudlabspro_score"))
	p.Row("Risk:", p.risk(resp, "fraudlabspro_risk"))

	if geo, ok := resp.Object("ip_geolocation"); ok {
		p.Section("IP Geolocation:")
		p.Row("  Country:", orDefault(geo, "N/A", "ip_country"))
		p.Row("  City:", orDefault(geo, "N/A", "ip_city"))
		p.Row("  ISP:", orDefault(geo, "N/A", "ip_isp"))
		p.Row("  Is Proxy:", p.YesNo(geo.Bool("is_proxy"), true))
		p.Row("  Is VPN:", p.YesNo(geo.Bool("is_vpn"), true))
	}

	if email, ok := resp.Object("email_validation"); ok {
		p.Section("Email Validation:")
		p.Row("  Is Valid:", p.YesNo(email.Bool("is_valid"), false))
		p.Row("  Is Disposable:", p.YesNo(email.Bool("is_disposable"), true))
	}
	p.Blank()
}
