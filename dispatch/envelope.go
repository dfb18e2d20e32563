package dispatch

import (
	"encoding/json"
	"strings"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"

	SeverityInfo  = "INFO"
	SeverityError = "ERROR"

	CodeOK          = "OK"
	CodeError       = "ERROR"
	CodeParam       = "PARAM"
	CodeCertificate = "CERTIFICATE"
)

// Envelope is the uniform output contract. Every invocation produces exactly
// one envelope; no error ever propagates past the entry point.
type Envelope struct {
	Status      string  `json:"status"`
	Output      Output  `json:"output"`
	Function    string  `json:"awsFunction"`
	RawRequest  *string `json:"apiXmlRequest"`
	RawResponse *string `json:"apiXmlResponse"`
}

type Output struct {
	Severity string          `json:"severity"`
	Code     string          `json:"code"`
	Reason   json.RawMessage `json:"reason"`
}

// BuildEnvelope renders the output contract. A reason that is itself a
// serialized JSON object or array is embedded as a nested value rather than an
// escaped string, so service results are never double-encoded.
func BuildEnvelope(operation string, status string, severity string, code string, reason string, rawRequest *string, rawResponse *string) []byte {
	envelope := Envelope{
		Status: status,
		Output: Output{
			Severity: severity,
			Code:     code,
			Reason:   encodeReason(reason),
		},
		Function:    operation,
		RawRequest:  rawRequest,
		RawResponse: rawResponse,
	}
	encoded, err := json.Marshal(envelope)
	if err != nil {
		// Raw XML is the only field that can defeat serialization; retry without it.
		envelope.RawRequest = nil
		envelope.RawResponse = nil
		encoded, _ = json.Marshal(envelope)
	}
	return encoded
}

// encodeReason embeds reason as raw JSON when it is a parseable top-level
// object or array, and as a plain string otherwise. The sniffing is
// deliberately no wider than that.
func encodeReason(reason string) json.RawMessage {
	trimmed := strings.TrimSpace(reason)
	if len(trimmed) > 1 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed)
	}
	encoded, _ := json.Marshal(reason)
	return json.RawMessage(encoded)
}
