package registry

import (
	"bytes"
	stdCrypto "crypto"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	dsig "github.com/russellhaering/goxmldsig"
)

const (
	nsSoapEnvelope      = "http://www.w3.org/2003/05/soap-envelope"
	nsAddressing        = "http://www.w3.org/2005/08/addressing"
	nsWSSecurityUtility = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	nsWSSecuritySecExt  = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	nsXMLDSig           = "http://www.w3.org/2000/09/xmldsig#"
	nsCommonElements    = "http://ns.electronichealth.net.au/hi/xsd/common/CommonCoreElements/3.0"
	nsQualifiedID       = "http://ns.electronichealth.net.au/hi/xsd/common/QualifiedIdentifier/3.0"

	valueTypeX509v3    = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-x509-token-profile-1.0#X509v3"
	encodingTypeBase64 = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"
)

// buildEnvelope wraps the operation payload in a SOAP envelope carrying the
// WS-Addressing headers, the HI Service identity headers and a WS-Security
// header whose signature covers the timestamp and the body.
func buildEnvelope(op Descriptor, endpoint string, identity Identity, credential *Credential, now time.Time, payload *etree.Element) (string, error) {
	envelope := etree.NewElement("s:Envelope")
	envelope.CreateAttr("xmlns:s", nsSoapEnvelope)
	envelope.CreateAttr("xmlns:a", nsAddressing)
	envelope.CreateAttr("xmlns:u", nsWSSecurityUtility)

	header := envelope.CreateElement("s:Header")
	action := header.CreateElement("a:Action")
	action.CreateAttr("s:mustUnderstand", "1")
	action.SetText(op.Action)
	messageID := header.CreateElement("a:MessageID")
	messageID.SetText("urn:uuid:" + uuid.New().String())
	to := header.CreateElement("a:To")
	to.CreateAttr("s:mustUnderstand", "1")
	to.SetText(endpoint)

	appendIdentityHeaders(header, identity)

	security := header.CreateElement("o:Security")
	security.CreateAttr("s:mustUnderstand", "1")
	security.CreateAttr("xmlns:o", nsWSSecuritySecExt)

	timestampID := "TS-" + uuid.New().String()
	timestamp := security.CreateElement("u:Timestamp")
	timestamp.CreateAttr("u:Id", timestampID)
	timestamp.CreateElement("u:Created").SetText(now.UTC().Format(time.RFC3339))
	timestamp.CreateElement("u:Expires").SetText(now.Add(5 * time.Minute).UTC().Format(time.RFC3339))

	tokenID := "X509-" + uuid.New().String()
	token := security.CreateElement("o:BinarySecurityToken")
	token.CreateAttr("u:Id", tokenID)
	token.CreateAttr("ValueType", valueTypeX509v3)
	token.CreateAttr("EncodingType", encodingTypeBase64)
	token.SetText(base64.StdEncoding.EncodeToString(bytes.Join(credential.Chain, nil)))

	bodyID := "Body-" + uuid.New().String()
	body := envelope.CreateElement("s:Body")
	body.CreateAttr("u:Id", bodyID)
	payload.Tag = op.Key
	payload.CreateAttr("xmlns", op.Namespace)
	body.AddChild(payload)

	signature, err := signParts(credential, tokenID, []signedPart{
		{id: timestampID, element: timestamp},
		{id: bodyID, element: body},
	})
	if err != nil {
		return "", fmt.Errorf("unable to sign request for %s: %w", op.Key, err)
	}
	security.AddChild(signature)

	doc := etree.NewDocument()
	doc.SetRoot(envelope)
	return doc.WriteToString()
}

func appendIdentityHeaders(header *etree.Element, identity Identity) {
	product := header.CreateElement("h:product")
	product.CreateAttr("xmlns:h", nsCommonElements)
	product.CreateAttr("xmlns:qid", nsQualifiedID)
	product.CreateElement("h:platform").SetText(identity.Product.Platform)
	product.CreateElement("h:productName").SetText(identity.Product.ProductName)
	product.CreateElement("h:productVersion").SetText(identity.Product.ProductVersion)
	vendor := product.CreateElement("h:vendor")
	vendor.CreateElement("qid:id").SetText(identity.Product.Vendor.ID)
	vendor.CreateElement("qid:qualifier").SetText(identity.Product.Vendor.Qualifier)

	appendQualifiedID(header, "h:user", identity.User.ID, identity.User.Qualifier)
	if identity.Organisation != nil {
		appendQualifiedID(header, "h:hpio", identity.Organisation.ID, identity.Organisation.Qualifier)
	}
}

func appendQualifiedID(header *etree.Element, tag string, id string, qualifier string) {
	element := header.CreateElement(tag)
	element.CreateAttr("xmlns:h", nsCommonElements)
	element.CreateAttr("xmlns:qid", nsQualifiedID)
	element.CreateElement("qid:id").SetText(id)
	element.CreateElement("qid:qualifier").SetText(qualifier)
}

type signedPart struct {
	id      string
	element *etree.Element
}

// signParts produces an XML signature over the given parts: each part is
// exclusively canonicalized and digested, the resulting SignedInfo is
// canonicalized and signed with the credential's key (rsa-sha256). The KeyInfo
// refers back to the binary security token carried in the same header.
func signParts(credential *Credential, tokenID string, parts []signedPart) (*etree.Element, error) {
	canonicalizer := dsig.MakeC14N10ExclusiveCanonicalizerWithPrefixList("")

	signedInfo := etree.NewElement("SignedInfo")
	signedInfo.CreateAttr("xmlns", nsXMLDSig)
	canonicalizationMethod := signedInfo.CreateElement("CanonicalizationMethod")
	canonicalizationMethod.CreateAttr("Algorithm", "http://www.w3.org/2001/10/xml-exc-c14n#")
	signatureMethod := signedInfo.CreateElement("SignatureMethod")
	signatureMethod.CreateAttr("Algorithm", "http://www.w3.org/2001/04/xmldsig-more#rsa-sha256")

	for _, part := range parts {
		canonical, err := canonicalizer.Canonicalize(part.element.Copy())
		if err != nil {
			return nil, fmt.Errorf("unable to canonicalize %s: %w", part.id, err)
		}
		digest := sha256.Sum256(canonical)

		reference := signedInfo.CreateElement("Reference")
		reference.CreateAttr("URI", "#"+part.id)
		transforms := reference.CreateElement("Transforms")
		transform := transforms.CreateElement("Transform")
		transform.CreateAttr("Algorithm", "http://www.w3.org/2001/10/xml-exc-c14n#")
		digestMethod := reference.CreateElement("DigestMethod")
		digestMethod.CreateAttr("Algorithm", "http://www.w3.org/2001/04/xmlenc#sha256")
		reference.CreateElement("DigestValue").SetText(base64.StdEncoding.EncodeToString(digest[:]))
	}

	canonicalSignedInfo, err := canonicalizer.Canonicalize(signedInfo)
	if err != nil {
		return nil, fmt.Errorf("unable to canonicalize SignedInfo: %w", err)
	}
	digest := sha256.Sum256(canonicalSignedInfo)
	signatureValue, err := credential.Signer.Sign(rand.Reader, digest[:], stdCrypto.SHA256)
	if err != nil {
		return nil, fmt.Errorf("unable to compute signature: %w", err)
	}

	signature := etree.NewElement("Signature")
	signature.CreateAttr("xmlns", nsXMLDSig)
	signature.AddChild(signedInfo)
	signature.CreateElement("SignatureValue").SetText(base64.StdEncoding.EncodeToString(signatureValue))
	keyInfo := signature.CreateElement("KeyInfo")
	tokenReference := keyInfo.CreateElement("o:SecurityTokenReference")
	tokenReference.CreateAttr("xmlns:o", nsWSSecuritySecExt)
	reference := tokenReference.CreateElement("o:Reference")
	reference.CreateAttr("URI", "#"+tokenID)
	reference.CreateAttr("ValueType", valueTypeX509v3)
	return signature, nil
}
