package registry

import "strings"

// Qualifier namespaces assigned by the HI Service for the identifier kinds the
// gateway exchanges. Identifier values on the wire are the qualifier followed by
// the bare number.
const (
	QualifierIHI          = "http://ns.electronichealth.net.au/id/hi/ihi/1.0"
	QualifierHPIO         = "http://ns.electronichealth.net.au/id/hi/hpio/1.0"
	QualifierHPII         = "http://ns.electronichealth.net.au/id/hi/hpii/1.0"
	QualifierMedicareCard = "http://ns.electronichealth.net.au/id/medicare-number"
	QualifierDVA          = "http://ns.electronichealth.net.au/id/dva"
	QualifierVendor       = "http://ns.electronichealth.net.au/id/hi/vendorid/1.0"
)

// ProductNameToken is the placeholder in user qualifier templates that is replaced
// with the normalized product name, e.g.
// "http://ns.electronichealth.net.au/id/{productName}/userid/1.0".
const ProductNameToken = "{productName}"

// QualifiedIdentity is implemented by every identity shape that carries an
// identifier and its namespace qualifier. The header builders are coded against
// this interface so the per-operation shapes need no dedicated construction code.
type QualifiedIdentity interface {
	SetIdentifier(id string)
	SetQualifier(qualifier string)
}

// ProductIdentity is implemented by product header shapes.
type ProductIdentity interface {
	SetPlatform(platform string)
	SetProductName(name string)
	SetProductVersion(version string)
	SetVendor(id string, qualifier string)
}

// UserID identifies the responsible person within the requesting organisation.
type UserID struct {
	ID        string
	Qualifier string
}

func (u *UserID) SetIdentifier(id string)       { u.ID = id }
func (u *UserID) SetQualifier(qualifier string) { u.Qualifier = qualifier }

// OrganisationID identifies the requesting healthcare provider organisation (HPI-O).
type OrganisationID struct {
	ID        string
	Qualifier string
}

func (o *OrganisationID) SetIdentifier(id string)       { o.ID = id }
func (o *OrganisationID) SetQualifier(qualifier string) { o.Qualifier = qualifier }

// VendorID identifies the software vendor registered with the HI Service.
type VendorID struct {
	ID        string
	Qualifier string
}

func (v *VendorID) SetIdentifier(id string)       { v.ID = id }
func (v *VendorID) SetQualifier(qualifier string) { v.Qualifier = qualifier }

// ProductHeader is the product identification block sent in every request header.
type ProductHeader struct {
	Platform       string
	ProductName    string
	ProductVersion string
	Vendor         VendorID
}

func (p *ProductHeader) SetPlatform(platform string)      { p.Platform = platform }
func (p *ProductHeader) SetProductName(name string)       { p.ProductName = name }
func (p *ProductHeader) SetProductVersion(version string) { p.ProductVersion = version }
func (p *ProductHeader) SetVendor(id string, qualifier string) {
	p.Vendor = VendorID{ID: id, Qualifier: qualifier}
}

// BuildUser populates target with the user identifier and the qualifier template,
// resolving the product-name placeholder against the normalized product name.
func BuildUser[T QualifiedIdentity](target T, userID string, qualifierTemplate string, productName string) T {
	target.SetIdentifier(userID)
	target.SetQualifier(strings.ReplaceAll(qualifierTemplate, ProductNameToken, normalizeProductName(productName)))
	return target
}

// BuildOrganisation populates target with the organisation identifier. A blank
// organisation id yields no value at all rather than a zero-valued shape.
func BuildOrganisation[T QualifiedIdentity](target T, organisationID string, qualifier string) (T, bool) {
	if organisationID == "" {
		var zero T
		return zero, false
	}
	target.SetIdentifier(organisationID)
	target.SetQualifier(qualifier)
	return target, true
}

// BuildProduct populates target with the deployment's product identification.
func BuildProduct[T ProductIdentity](target T, platform string, productName string, productVersion string, vendorID string, vendorQualifier string) T {
	target.SetPlatform(platform)
	target.SetProductName(productName)
	target.SetProductVersion(productVersion)
	target.SetVendor(vendorID, vendorQualifier)
	return target
}

func normalizeProductName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// Identity bundles the identity shapes a provisioned client sends with each call.
type Identity struct {
	Product      ProductHeader
	User         UserID
	Organisation *OrganisationID
}

// Qualify prefixes a bare identifier with its namespace qualifier. Values that
// already carry the qualifier are passed through unchanged.
func Qualify(qualifier string, value string) string {
	if value == "" || strings.HasPrefix(value, qualifier) {
		return value
	}
	return qualifier + "/" + value
}
