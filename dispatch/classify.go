package dispatch

import "github.com/medirex-au/higateway/registry"

// The registry accepts exactly one search mode per call. Each family declares
// an ordered rule list; the first matching rule wins and destructively clears
// every field that does not belong to its variant, so a later rule can never
// accidentally match downstream. Clearing happens only on the chosen branch.

type variantRule struct {
	name    string
	matches func(*registry.Request) bool
	clear   func(*registry.Request)
}

var searchRules = map[registry.SearchFamily][]variantRule{
	registry.FamilyConsumerSearch: {
		{
			name:    "medicare",
			matches: func(r *registry.Request) bool { return r.MedicareCardNumber != "" },
			clear: func(r *registry.Request) {
				clearDVA(r)
				clearIHI(r)
				clearAddress(r)
				clearContact(r)
			},
		},
		{
			name:    "dva",
			matches: func(r *registry.Request) bool { return r.DVAFileNumber != "" },
			clear: func(r *registry.Request) {
				clearMedicare(r)
				clearIHI(r)
				clearAddress(r)
				clearContact(r)
			},
		},
		{
			name:    "ihi",
			matches: func(r *registry.Request) bool { return r.IHINumber != "" },
			clear: func(r *registry.Request) {
				clearMedicare(r)
				clearDVA(r)
				clearAddress(r)
				clearContact(r)
			},
		},
		{
			name: "unstructuredAddress",
			matches: func(r *registry.Request) bool {
				return r.AddressLine != "" && r.FamilyName != "" && r.GivenName != ""
			},
			clear: func(r *registry.Request) {
				clearMedicare(r)
				clearDVA(r)
				clearIHI(r)
				clearContact(r)
			},
		},
		{
			// A mobile contact is sufficient on its own; any other medium also
			// requires the given name.
			name: "detail",
			matches: func(r *registry.Request) bool {
				if r.ElectronicCommunicationMedium == "" || r.ElectronicCommunicationDetails == "" || r.FamilyName == "" {
					return false
				}
				return r.GivenName != "" || r.ElectronicCommunicationMedium == registry.ElectronicCommunicationMediumMobile
			},
			clear: func(r *registry.Request) {
				clearMedicare(r)
				clearDVA(r)
				clearIHI(r)
				clearAddress(r)
			},
		},
	},
	registry.FamilyProviderIndividualSearch: {
		{
			name:    "identifier",
			matches: func(r *registry.Request) bool { return r.HPIINumber != "" },
			clear: func(r *registry.Request) {
				r.RegistrationID = ""
				r.FamilyName = ""
				r.GivenName = ""
			},
		},
		{
			name:    "registration",
			matches: func(r *registry.Request) bool { return r.RegistrationID != "" },
			clear: func(r *registry.Request) {
				r.HPIINumber = ""
				r.FamilyName = ""
				r.GivenName = ""
			},
		},
		{
			name:    "name",
			matches: func(r *registry.Request) bool { return r.FamilyName != "" },
			clear: func(r *registry.Request) {
				r.HPIINumber = ""
				r.RegistrationID = ""
			},
		},
	},
	registry.FamilyProviderOrganisationSearch: {
		{
			name:    "identifier",
			matches: func(r *registry.Request) bool { return r.HPIONumber != "" },
			clear: func(r *registry.Request) {
				r.OrganisationName = ""
			},
		},
		{
			// Name-only directory search; selection mirrors the registry's
			// documented precedence even though downstream support is limited.
			name:    "name",
			matches: func(r *registry.Request) bool { return r.OrganisationName != "" },
			clear: func(r *registry.Request) {
				r.HPIONumber = ""
			},
		},
	},
}

// Classify selects the search variant for the family and clears the fields
// outside the chosen variant. It returns false when the request meets no
// variant's minimum criteria. Classifying an already-classified request again
// yields the same variant and leaves the field set unchanged.
func Classify(family registry.SearchFamily, request *registry.Request) (string, bool) {
	for _, rule := range searchRules[family] {
		if rule.matches(request) {
			rule.clear(request)
			return rule.name, true
		}
	}
	return "", false
}

func clearMedicare(r *registry.Request) {
	r.MedicareCardNumber = ""
	r.MedicareIRN = ""
}

func clearDVA(r *registry.Request) {
	r.DVAFileNumber = ""
}

func clearIHI(r *registry.Request) {
	r.IHINumber = ""
}

func clearAddress(r *registry.Request) {
	r.AddressLine = ""
	r.Suburb = ""
	r.State = ""
	r.Postcode = ""
}

func clearContact(r *registry.Request) {
	r.ElectronicCommunicationMedium = ""
	r.ElectronicCommunicationDetails = ""
}
