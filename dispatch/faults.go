package dispatch

import "github.com/medirex-au/higateway/registry"

// NormalizeFault maps a registry fault onto envelope output fields. When the
// operation has a registered fault shape and the detail body decodes to at
// least one structured service message, the first message's fields are used
// verbatim. Otherwise the raw fault text is surfaced under a generic ERROR
// severity.
func NormalizeFault(fault *registry.FaultError) (severity string, code string, reason string) {
	if messages := fault.ServiceMessages(); len(messages) > 0 {
		first := messages[0]
		return first.Severity, first.Code, first.Reason
	}
	reason = fault.Raw
	if reason == "" {
		reason = fault.FaultString
	}
	return SeverityError, CodeError, reason
}
