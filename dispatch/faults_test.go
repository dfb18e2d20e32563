package dispatch

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"

	"github.com/medirex-au/higateway/registry"
)

func faultDetail(shape string, messages ...registry.ServiceMessage) *etree.Element {
	detail := etree.NewElement("Detail")
	block := detail.CreateElement(shape).CreateElement("serviceMessagesType")
	for _, message := range messages {
		element := block.CreateElement("serviceMessage")
		element.CreateElement("severity").SetText(message.Severity)
		element.CreateElement("code").SetText(message.Code)
		element.CreateElement("reason").SetText(message.Reason)
	}
	return detail
}

func TestNormalizeFault(t *testing.T) {
	t.Run("first structured message is used verbatim", func(t *testing.T) {
		fault := &registry.FaultError{
			Operation: "searchIHI",
			Detail: faultDetail("searchIHIFault",
				registry.ServiceMessage{Severity: "Error", Code: "WSE-9012", Reason: "No records matched the search criteria"},
				registry.ServiceMessage{Severity: "Warning", Code: "WSE-0102", Reason: "Address could not be validated"},
			),
			Raw: "<fault/>",
		}
		severity, code, reason := NormalizeFault(fault)
		assert.Equal(t, "Error", severity)
		assert.Equal(t, "WSE-9012", code)
		assert.Equal(t, "No records matched the search criteria", reason)
	})
	t.Run("operation without a registered shape falls back to the raw text", func(t *testing.T) {
		fault := &registry.FaultError{
			Operation:   "readReferenceData",
			FaultString: "Processing error",
			Detail:      faultDetail("readReferenceDataFault", registry.ServiceMessage{Severity: "Error", Code: "WSE-1", Reason: "ignored"}),
			Raw:         "<raw-fault/>",
		}
		severity, code, reason := NormalizeFault(fault)
		assert.Equal(t, SeverityError, severity)
		assert.Equal(t, CodeError, code)
		assert.Equal(t, "<raw-fault/>", reason)
	})
	t.Run("fault string is the last resort", func(t *testing.T) {
		fault := &registry.FaultError{
			Operation:   "searchIHI",
			FaultString: "Processing error",
		}
		severity, code, reason := NormalizeFault(fault)
		assert.Equal(t, SeverityError, severity)
		assert.Equal(t, CodeError, code)
		assert.Equal(t, "Processing error", reason)
	})
}
