package registry

import (
	"fmt"

	"github.com/beevik/etree"
)

// The build functions render a classified Request into the operation's body
// payload. They assume classification has already cleared the fields that do
// not belong to the chosen search variant; whatever is still populated is
// rendered. Registration defaults for absent demographic values are applied
// here, not by the classifier.

func newOperationElement(op string) *etree.Element {
	element := etree.NewElement(op)
	return element
}

func appendText(parent *etree.Element, tag string, value string) {
	if value == "" {
		return
	}
	parent.CreateElement(tag).SetText(value)
}

func appendAddress(parent *etree.Element, r *Request) {
	if r.AddressLine == "" {
		return
	}
	address := parent.CreateElement("australianUnstructuredStreetAddress")
	appendText(address, "addressLineOne", r.AddressLine)
	appendText(address, "suburb", r.Suburb)
	appendText(address, "state", r.State)
	appendText(address, "postcode", r.Postcode)
}

func appendElectronicCommunication(parent *etree.Element, r *Request) {
	if r.ElectronicCommunicationMedium == "" && r.ElectronicCommunicationDetails == "" {
		return
	}
	contact := parent.CreateElement("electronicCommunication")
	appendText(contact, "medium", r.ElectronicCommunicationMedium)
	appendText(contact, "details", r.ElectronicCommunicationDetails)
}

// appendBirthDetails writes dateOfBirth/dateOfBirthAccuracy/sex, substituting
// the registration defaults when the caller omitted them.
func appendBirthDetails(parent *etree.Element, r *Request) {
	dateOfBirth := r.DateOfBirth
	accuracy := r.DateOfBirthAccuracy
	if dateOfBirth == "" {
		dateOfBirth = DefaultDateOfBirth
		accuracy = DefaultDateOfBirthAccuracy
	}
	sex := r.Sex
	if sex == "" {
		sex = DefaultSex
	}
	appendText(parent, "dateOfBirth", dateOfBirth)
	appendText(parent, "dateOfBirthAccuracy", accuracy)
	appendText(parent, "sex", sex)
}

func buildSearchIHI(r *Request) (*etree.Element, error) {
	body := newOperationElement("searchIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendText(body, "dateOfBirth", r.DateOfBirth)
	appendText(body, "sex", r.Sex)
	appendText(body, "medicareCardNumber", r.MedicareCardNumber)
	appendText(body, "medicareIRN", r.MedicareIRN)
	appendText(body, "dvaFileNumber", r.DVAFileNumber)
	appendAddress(body, r)
	appendElectronicCommunication(body, r)
	return body, nil
}

func buildCreateProvisionalIHI(r *Request) (*etree.Element, error) {
	body := newOperationElement("createProvisionalIHI")
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendBirthDetails(body, r)
	return body, nil
}

func buildCreateUnverifiedIHI(r *Request) (*etree.Element, error) {
	body := newOperationElement("createUnverifiedIHI")
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendBirthDetails(body, r)
	appendAddress(body, r)
	appendElectronicCommunication(body, r)
	return body, nil
}

func buildCreateVerifiedIHI(r *Request) (*etree.Element, error) {
	body := newOperationElement("createVerifiedIHI")
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendBirthDetails(body, r)
	appendText(body, "medicareCardNumber", r.MedicareCardNumber)
	appendText(body, "medicareIRN", r.MedicareIRN)
	appendText(body, "dvaFileNumber", r.DVAFileNumber)
	appendAddress(body, r)
	return body, nil
}

func requireIHINumber(r *Request, op string) error {
	if r.IHINumber == "" {
		return fmt.Errorf("%s requires an ihiNumber", op)
	}
	return nil
}

func buildUpdateIHI(r *Request) (*etree.Element, error) {
	if err := requireIHINumber(r, "updateIHI"); err != nil {
		return nil, err
	}
	body := newOperationElement("updateIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendText(body, "dateOfBirth", r.DateOfBirth)
	appendText(body, "dateOfBirthAccuracy", r.DateOfBirthAccuracy)
	appendText(body, "sex", r.Sex)
	appendAddress(body, r)
	appendElectronicCommunication(body, r)
	return body, nil
}

func buildUpdateProvisionalIHI(r *Request) (*etree.Element, error) {
	if err := requireIHINumber(r, "updateProvisionalIHI"); err != nil {
		return nil, err
	}
	body := newOperationElement("updateProvisionalIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendBirthDetails(body, r)
	return body, nil
}

func buildResolveProvisionalIHI(r *Request) (*etree.Element, error) {
	if err := requireIHINumber(r, "resolveProvisionalIHI"); err != nil {
		return nil, err
	}
	body := newOperationElement("resolveProvisionalIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "ihiRecordStatus", r.IHIRecordStatus)
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendText(body, "dateOfBirth", r.DateOfBirth)
	appendText(body, "sex", r.Sex)
	return body, nil
}

func buildMergeProvisionalIHI(r *Request) (*etree.Element, error) {
	if err := requireIHINumber(r, "mergeProvisionalIHI"); err != nil {
		return nil, err
	}
	if r.DuplicateIHINumber == "" {
		return nil, fmt.Errorf("mergeProvisionalIHI requires a duplicateIhiNumber")
	}
	body := newOperationElement("mergeProvisionalIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "duplicateIhiNumber", Qualify(QualifierIHI, r.DuplicateIHINumber))
	return body, nil
}

func buildNotifyDuplicateIHI(r *Request) (*etree.Element, error) {
	if err := requireIHINumber(r, "notifyDuplicateIHI"); err != nil {
		return nil, err
	}
	if r.DuplicateIHINumber == "" {
		return nil, fmt.Errorf("notifyDuplicateIHI requires a duplicateIhiNumber")
	}
	body := newOperationElement("notifyDuplicateIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "duplicateIhiNumber", Qualify(QualifierIHI, r.DuplicateIHINumber))
	appendText(body, "comment", r.Comment)
	return body, nil
}

func buildNotifyReplicaIHI(r *Request) (*etree.Element, error) {
	if err := requireIHINumber(r, "notifyReplicaIHI"); err != nil {
		return nil, err
	}
	body := newOperationElement("notifyReplicaIHI")
	appendText(body, "ihiNumber", Qualify(QualifierIHI, r.IHINumber))
	appendText(body, "comment", r.Comment)
	return body, nil
}

func buildReadReferenceData(r *Request) (*etree.Element, error) {
	if len(r.ReferenceTypes) == 0 {
		return nil, fmt.Errorf("readReferenceData requires at least one referenceType")
	}
	body := newOperationElement("readReferenceData")
	for _, name := range r.ReferenceTypes {
		appendText(body, "elementName", name)
	}
	return body, nil
}

// buildProviderIndividualSearch serves both the provider individual search and
// its directory variant; the two operations accept the same field set.
func buildProviderIndividualSearch(r *Request) (*etree.Element, error) {
	body := newOperationElement("searchForProviderIndividual")
	appendText(body, "hpiiNumber", Qualify(QualifierHPII, r.HPIINumber))
	appendText(body, "registrationId", r.RegistrationID)
	appendText(body, "familyName", r.FamilyName)
	appendText(body, "givenName", r.GivenName)
	appendText(body, "sex", r.Sex)
	appendText(body, "providerTypeCode", r.ProviderTypeCode)
	appendText(body, "state", r.State)
	appendText(body, "postcode", r.Postcode)
	return body, nil
}

func buildProviderOrganisationSearch(r *Request) (*etree.Element, error) {
	body := newOperationElement("searchForProviderOrganisation")
	appendText(body, "hpioNumber", Qualify(QualifierHPIO, r.HPIONumber))
	appendText(body, "name", r.OrganisationName)
	appendText(body, "organisationTypeCode", r.OrganisationTypeCode)
	appendText(body, "suburb", r.Suburb)
	appendText(body, "state", r.State)
	appendText(body, "postcode", r.Postcode)
	return body, nil
}
