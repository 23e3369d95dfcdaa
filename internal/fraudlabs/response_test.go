package fraudlabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Accessors(t *testing.T) {
	t.Parallel()

	resp, err := NewResponse([]byte(`{
		"fraudlabspro_id": "FL-9",
		"fraudlabspro_score": 82,
		"fraudlabspro_risk": "41.5",
		"fraudlabspro_status": "",
		"request_id": null,
		"ip_geolocation": {"ip_country": "US", "is_proxy": true, "is_vpn": "N"},
		"email_validation": {"is_valid": "Y", "is_disposable": 0}
	}`))
	require.NoError(t, err)

	id, ok := resp.String("fraudlabspro_id")
	assert.True(t, ok)
	assert.Equal(t, "FL-9", id)

	_, ok = resp.String("fraudlabspro_status")
	assert.False(t, ok, "empty string counts as absent")

	_, ok = resp.Value("request_id")
	assert.False(t, ok, "null counts as absent")

	score, ok := resp.Number("fraudlabspro_score")
	assert.True(t, ok)
	assert.Equal(t, 82.0, score)

	risk, ok := resp.Number("fraudlabspro_risk")
	assert.True(t, ok)
	assert.Equal(t, 41.5, risk)

	geo, ok := resp.Object("ip_geolocation")
	require.True(t, ok)
	assert.True(t, geo.Bool("is_proxy"))
	assert.False(t, geo.Bool("is_vpn"))
	assert.False(t, geo.Bool("missing"))

	email, ok := resp.Object("email_validation")
	require.True(t, ok)
	assert.True(t, email.Bool("is_valid"))
	assert.False(t, email.Bool("is_disposable"))

	_, ok = resp.Object("fraudlabspro_id")
	assert.False(t, ok)
}

func TestResponse_PrettyKeepsBodyVerbatim(t *testing.T) {
	t.Parallel()

	resp, err := NewResponse([]byte(`{"b":1.50,"a":[true,null]}`))
	require.NoError(t, err)

	out, err := resp.Pretty()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1.50,\n  \"a\": [\n    true,\n    null\n  ]\n}", string(out))
}

func TestResponse_NonObjectBody(t *testing.T) {
	t.Parallel()

	resp, err := NewResponse([]byte(`[1,2]`))
	require.NoError(t, err)
	assert.Empty(t, resp.Fields)
	_, ok := resp.String("result")
	assert.False(t, ok)
}
