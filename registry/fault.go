package registry

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ServiceMessage is one structured message from a registry fault detail body.
type ServiceMessage struct {
	Severity string
	Code     string
	Reason   string
}

// FaultError is returned by Invoke when the registry answers with a SOAP fault.
// It carries the raw response and, when present, the fault's detail element so
// the structured service messages can be decoded per operation.
type FaultError struct {
	Operation   string
	FaultString string
	Detail      *etree.Element
	Raw         string
}

func (e *FaultError) Error() string {
	if e.FaultString != "" {
		return fmt.Sprintf("%s fault: %s", e.Operation, e.FaultString)
	}
	return e.Operation + " fault"
}

// faultShapes maps an operation key to the name of the element inside the fault
// detail that carries its serviceMessages block. Operations without an entry
// fall back to the raw fault text.
var faultShapes = map[string]string{
	"searchIHI":                              "searchIHIFault",
	"createProvisionalIHI":                   "createProvisionalIHIFault",
	"createUnverifiedIHI":                    "createUnverifiedIHIFault",
	"createVerifiedIHI":                      "createVerifiedIHIFault",
	"updateIHI":                              "updateIHIFault",
	"updateProvisionalIHI":                   "updateProvisionalIHIFault",
	"resolveProvisionalIHI":                  "resolveProvisionalIHIFault",
	"mergeProvisionalIHI":                    "mergeProvisionalIHIFault",
	"notifyDuplicateIHI":                     "notifyDuplicateIHIFault",
	"notifyReplicaIHI":                       "notifyReplicaIHIFault",
	"searchForProviderIndividual":            "searchForProviderIndividualFault",
	"searchHIProviderDirectoryForIndividual": "searchHIProviderDirectoryForIndividualFault",
	"searchForProviderOrganisation":          "searchForProviderOrganisationFault",
	"searchHIProviderDirectoryForOrganisation": "searchHIProviderDirectoryForOrganisationFault",
	// readReferenceData faults carry no structured detail.
}

// FaultShapeFor returns the registered fault detail shape for an operation key.
func FaultShapeFor(key string) (string, bool) {
	shape, ok := faultShapes[key]
	return shape, ok
}

// ServiceMessages decodes the structured service messages from the fault's
// detail body. It returns nil when the operation has no registered fault shape,
// the detail is absent, or the detail does not contain the expected shape.
func (e *FaultError) ServiceMessages() []ServiceMessage {
	shape, ok := FaultShapeFor(e.Operation)
	if !ok || e.Detail == nil {
		return nil
	}
	detail := e.Detail.FindElement(".//" + shape)
	if detail == nil {
		return nil
	}
	var messages []ServiceMessage
	for _, element := range detail.FindElements(".//serviceMessage") {
		messages = append(messages, ServiceMessage{
			Severity: childText(element, "severity"),
			Code:     childText(element, "code"),
			Reason:   childText(element, "reason"),
		})
	}
	return messages
}

func childText(parent *etree.Element, tag string) string {
	child := parent.FindElement(tag)
	if child == nil {
		return ""
	}
	return strings.TrimSpace(child.Text())
}

// parseFault inspects a response body for a SOAP fault. It returns nil when the
// body carries no fault. Both SOAP 1.1 and 1.2 fault vocabularies are accepted.
func parseFault(operation string, raw string) *FaultError {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil
	}
	fault := doc.FindElement("//Fault")
	if fault == nil {
		return nil
	}
	result := &FaultError{Operation: operation, Raw: raw}
	if reason := fault.FindElement(".//Reason/Text"); reason != nil {
		result.FaultString = strings.TrimSpace(reason.Text())
	} else if faultString := fault.FindElement(".//faultstring"); faultString != nil {
		result.FaultString = strings.TrimSpace(faultString.Text())
	}
	if detail := fault.FindElement("Detail"); detail != nil {
		result.Detail = detail.Copy()
	} else if detail := fault.FindElement("detail"); detail != nil {
		result.Detail = detail.Copy()
	}
	return result
}
