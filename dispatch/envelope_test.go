package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medirex-au/higateway/lib/to"
)

func decodeEnvelope(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestBuildEnvelope_jsonReasonIsEmbedded(t *testing.T) {
	data := BuildEnvelope("Search IHI", StatusSuccess, SeverityInfo, CodeOK,
		`{"ihiStatus":"Active","ihiRecordStatus":"Verified"}`, to.Ptr("<request/>"), to.Ptr("<response/>"))

	decoded := decodeEnvelope(t, data)
	assert.Equal(t, "SUCCESS", decoded["status"])
	assert.Equal(t, "Search IHI", decoded["awsFunction"])
	assert.Equal(t, "<request/>", decoded["apiXmlRequest"])
	assert.Equal(t, "<response/>", decoded["apiXmlResponse"])

	output, ok := decoded["output"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INFO", output["severity"])
	assert.Equal(t, "OK", output["code"])
	reason, ok := output["reason"].(map[string]any)
	require.True(t, ok, "JSON reason must be a nested value, not an escaped string")
	assert.Equal(t, "Active", reason["ihiStatus"])
}

func TestBuildEnvelope_plainReasonStaysAString(t *testing.T) {
	data := BuildEnvelope("higateway", StatusFailure, SeverityError, CodeParam, "internalMode is required", nil, nil)

	decoded := decodeEnvelope(t, data)
	assert.Equal(t, "FAILURE", decoded["status"])
	assert.Nil(t, decoded["apiXmlRequest"])
	assert.Nil(t, decoded["apiXmlResponse"])

	output := decoded["output"].(map[string]any)
	assert.Equal(t, "PARAM", output["code"])
	assert.Equal(t, "internalMode is required", output["reason"])
}

func TestEncodeReason(t *testing.T) {
	tests := []struct {
		name   string
		reason string
		want   string
	}{
		{"object", `{"a":1}`, `{"a":1}`},
		{"array", `[1,2]`, `[1,2]`},
		{"leading whitespace", "  {\"a\":1}", `{"a":1}`},
		{"malformed object", `{"a":`, `"{\"a\":"`},
		{"plain text", "not found", `"not found"`},
		{"xml", "<fault/>", `"<fault/>"`},
		{"empty", "", `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.want, string(encodeReason(tt.reason)))
		})
	}
}
