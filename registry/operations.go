package registry

import (
	"fmt"

	"github.com/beevik/etree"
)

// Group is one of the three entry surfaces the gateway exposes. Every operation
// belongs to exactly one group and is only reachable through that surface.
type Group string

const (
	GroupConsumer             Group = "consumer"
	GroupProviderIndividual   Group = "provider-individual"
	GroupProviderOrganisation Group = "provider-organisation"
)

// SearchFamily identifies the classification rule set that applies to an
// operation's request, FamilyNone for operations without search variants.
type SearchFamily int

const (
	FamilyNone SearchFamily = iota
	FamilyConsumerSearch
	FamilyProviderIndividualSearch
	FamilyProviderOrganisationSearch
)

// Descriptor is the immutable record describing one supported HI Service
// operation. The table below is built once at process start and never mutated.
type Descriptor struct {
	// Key is the stable operation key, also the accepted internalMode value.
	Key string
	// Label is the human-readable operation name reported in envelopes.
	Label string
	// Group is the entry surface the operation belongs to.
	Group Group
	// Family selects the classification rule set, FamilyNone when not a search.
	Family SearchFamily
	// Namespace is the operation's service namespace.
	Namespace string
	// Action is the SOAP action URI.
	Action string
	// Result is the name of the result element in a successful response body.
	Result string
	// Build renders the classified request into the operation's body payload.
	Build func(*Request) (*etree.Element, error)
}

const namespaceBase = "http://ns.electronichealth.net.au/hi/svc"

func describe(key, label, service string, group Group, family SearchFamily, build func(*Request) (*etree.Element, error)) Descriptor {
	ns := fmt.Sprintf("%s/%s/3.0", namespaceBase, service)
	return Descriptor{
		Key:       key,
		Label:     label,
		Group:     group,
		Family:    family,
		Namespace: ns,
		Action:    ns + "/" + key,
		Result:    key + "Result",
		Build:     build,
	}
}

var operations = []Descriptor{
	describe("searchIHI", "IHI Inquiry Search", "ConsumerSearchIHI", GroupConsumer, FamilyConsumerSearch, buildSearchIHI),
	describe("createProvisionalIHI", "Create Provisional IHI", "ConsumerCreateProvisionalIHI", GroupConsumer, FamilyNone, buildCreateProvisionalIHI),
	describe("createUnverifiedIHI", "Create Unverified IHI", "ConsumerCreateUnverifiedIHI", GroupConsumer, FamilyNone, buildCreateUnverifiedIHI),
	describe("createVerifiedIHI", "Create Verified IHI", "ConsumerCreateVerifiedIHI", GroupConsumer, FamilyNone, buildCreateVerifiedIHI),
	describe("updateIHI", "Update IHI Demographics", "ConsumerUpdateIHI", GroupConsumer, FamilyNone, buildUpdateIHI),
	describe("updateProvisionalIHI", "Update Provisional IHI", "ConsumerUpdateProvisionalIHI", GroupConsumer, FamilyNone, buildUpdateProvisionalIHI),
	describe("resolveProvisionalIHI", "Resolve Provisional IHI", "ConsumerResolveProvisionalIHI", GroupConsumer, FamilyNone, buildResolveProvisionalIHI),
	describe("mergeProvisionalIHI", "Merge Provisional IHI", "ConsumerMergeProvisionalIHI", GroupConsumer, FamilyNone, buildMergeProvisionalIHI),
	describe("notifyDuplicateIHI", "Notify Duplicate IHI", "ConsumerNotifyDuplicateIHI", GroupConsumer, FamilyNone, buildNotifyDuplicateIHI),
	describe("notifyReplicaIHI", "Notify Replica IHI", "ConsumerNotifyReplicaIHI", GroupConsumer, FamilyNone, buildNotifyReplicaIHI),
	describe("readReferenceData", "Read Reference Data", "ConsumerReadReferenceData", GroupConsumer, FamilyNone, buildReadReferenceData),
	describe("searchForProviderIndividual", "Search for Provider Individual", "ProviderSearchForProviderIndividual", GroupProviderIndividual, FamilyProviderIndividualSearch, buildProviderIndividualSearch),
	describe("searchHIProviderDirectoryForIndividual", "Search HI Provider Directory for Individual", "ProviderSearchHIProviderDirectoryForIndividual", GroupProviderIndividual, FamilyProviderIndividualSearch, buildProviderIndividualSearch),
	describe("searchForProviderOrganisation", "Search for Provider Organisation", "ProviderSearchForProviderOrganisation", GroupProviderOrganisation, FamilyProviderOrganisationSearch, buildProviderOrganisationSearch),
	describe("searchHIProviderDirectoryForOrganisation", "Search HI Provider Directory for Organisation", "ProviderSearchHIProviderDirectoryForOrganisation", GroupProviderOrganisation, FamilyProviderOrganisationSearch, buildProviderOrganisationSearch),
}

var operationIndex = func() map[string]Descriptor {
	index := make(map[string]Descriptor, len(operations))
	for _, op := range operations {
		if _, exists := index[op.Key]; exists {
			panic("duplicate operation key: " + op.Key)
		}
		index[op.Key] = op
	}
	return index
}()

// Operations returns all supported operation descriptors.
func Operations() []Descriptor {
	return operations
}

// Lookup resolves an operation key against the static table.
func Lookup(key string) (Descriptor, bool) {
	op, ok := operationIndex[key]
	return op, ok
}

// LookupIn resolves an operation key within a single entry surface.
func LookupIn(group Group, key string) (Descriptor, bool) {
	op, ok := operationIndex[key]
	if !ok || op.Group != group {
		return Descriptor{}, false
	}
	return op, true
}
