package registry

// Request is the loosely-typed input bag supplied by the caller. It is decoded
// from the invocation payload, classified into exactly one search variant where
// the operation requires it, and then rendered into the operation's XML body.
// A Request lives for a single invocation and is never persisted.
type Request struct {
	Mode   string `json:"internalMode"`
	UserID string `json:"internalUserId"`
	HPIO   string `json:"internalHPIO"`

	// Consumer (IHI) fields.
	IHINumber           string `json:"ihiNumber,omitempty"`
	MedicareCardNumber  string `json:"medicareCardNumber,omitempty"`
	MedicareIRN         string `json:"medicareIRN,omitempty"`
	DVAFileNumber       string `json:"dvaFileNumber,omitempty"`
	FamilyName          string `json:"familyName,omitempty"`
	GivenName           string `json:"givenName,omitempty"`
	DateOfBirth         string `json:"dateOfBirth,omitempty"`
	DateOfBirthAccuracy string `json:"dateOfBirthAccuracy,omitempty"`
	Sex                 string `json:"sex,omitempty"`

	// Unstructured Australian address search fields.
	AddressLine string `json:"unstructuredAddressLine,omitempty"`
	Suburb      string `json:"suburb,omitempty"`
	State       string `json:"state,omitempty"`
	Postcode    string `json:"postcode,omitempty"`

	// Detailed search contact fields.
	ElectronicCommunicationMedium  string `json:"electronicCommunicationMedium,omitempty"`
	ElectronicCommunicationDetails string `json:"electronicCommunicationDetails,omitempty"`

	// Update and notification fields.
	IHIRecordStatus    string `json:"ihiRecordStatus,omitempty"`
	IHIStatus          string `json:"ihiStatus,omitempty"`
	DuplicateIHINumber string `json:"duplicateIhiNumber,omitempty"`
	Comment            string `json:"comment,omitempty"`

	// Reference data element names.
	ReferenceTypes []string `json:"referenceTypes,omitempty"`

	// Provider individual fields.
	HPIINumber       string `json:"hpiiNumber,omitempty"`
	RegistrationID   string `json:"registrationId,omitempty"`
	ProviderTypeCode string `json:"providerTypeCode,omitempty"`

	// Provider organisation fields.
	HPIONumber           string `json:"hpioNumber,omitempty"`
	OrganisationName     string `json:"organisationName,omitempty"`
	OrganisationTypeCode string `json:"organisationTypeCode,omitempty"`
}

// ElectronicCommunicationMediumMobile is the medium code for a mobile telephone
// contact. A detailed search with a mobile contact does not require a given name.
const ElectronicCommunicationMediumMobile = "M"

// Registration defaults applied by the create operations when the caller omits
// demographic values the registry requires. The placeholder birth date is a
// registry convention for records pending verification, always flagged as
// estimated.
const (
	DefaultDateOfBirth         = "1900-01-01"
	DefaultDateOfBirthAccuracy = "EEE"
	DefaultSex                 = "N"
)
