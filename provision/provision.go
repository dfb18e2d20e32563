// Package provision assembles ready-to-call HI Service client handles: it
// resolves the deployment configuration from the parameter store, probes the
// registry endpoint, retrieves and validates the client certificate, and binds
// the identity shapes the target operation requires. A fresh handle is built
// per invocation; nothing here retries.
package provision

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medirex-au/higateway/certsource"
	"github.com/medirex-au/higateway/registry"
)

// Kind classifies provisioning failures.
type Kind string

const (
	KindUnknownOperation       Kind = "UnknownOperation"
	KindConfigUnavailable      Kind = "ConfigUnavailable"
	KindEndpointUnavailable    Kind = "EndpointUnavailable"
	KindCertificateUnavailable Kind = "CertificateUnavailable"
	KindCertificateExpired     Kind = "CertificateExpired"
)

type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// CertificateRelated reports whether the failure concerns the certificate or
// the endpoint, which callers surface under the CERTIFICATE error code.
func (e *Error) CertificateRelated() bool {
	switch e.Kind {
	case KindEndpointUnavailable, KindCertificateUnavailable, KindCertificateExpired:
		return true
	}
	return false
}

// Parameter names resolved per invocation, relative to the configured prefix.
const (
	paramEndpoint              = "endpoint"
	paramProductPlatform       = "product.platform"
	paramProductName           = "product.name"
	paramProductVersion        = "product.version"
	paramVendorID              = "vendor.id"
	paramVendorQualifier       = "vendor.qualifier"
	paramUserQualifier         = "qualifier.user"
	paramOrganisationQualifier = "qualifier.organisation"
	paramCertificateBucket     = "certificate.bucket"
	paramCertificateKey        = "certificate.key"
	paramCertificatePassphrase = "certificate.passphrase"
)

var parameterNames = []string{
	paramEndpoint,
	paramProductPlatform,
	paramProductName,
	paramProductVersion,
	paramVendorID,
	paramVendorQualifier,
	paramUserQualifier,
	paramOrganisationQualifier,
	paramCertificateBucket,
	paramCertificateKey,
	paramCertificatePassphrase,
}

// probeClient is shared across invocations so liveness probes reuse
// connections. It carries no request state.
var probeClient = &http.Client{
	Timeout: 10 * time.Second,
}

type Provisioner struct {
	params       ParameterStore
	certificates certsource.Source
	prefix       string
	probe        *http.Client
	now          func() time.Time
}

func New(params ParameterStore, certificates certsource.Source, prefix string) *Provisioner {
	return &Provisioner{
		params:       params,
		certificates: certificates,
		prefix:       strings.TrimSuffix(prefix, "/"),
		probe:        probeClient,
		now:          time.Now,
	}
}

// Provision builds a single-use client handle for the given operation, bound to
// the caller's user and organisation identity.
func (p *Provisioner) Provision(ctx context.Context, operationKey string, userID string, organisationID string) (*registry.Client, error) {
	op, ok := registry.Lookup(operationKey)
	if !ok {
		return nil, &Error{Kind: KindUnknownOperation, Message: "unknown operation " + operationKey}
	}

	values, err := p.fetchParameters(ctx)
	if err != nil {
		return nil, err
	}
	endpoint, err := url.Parse(values[paramEndpoint])
	if err != nil {
		return nil, &Error{Kind: KindConfigUnavailable, Message: "invalid endpoint URL", Cause: err}
	}

	if err := p.probeEndpoint(ctx, endpoint.String()); err != nil {
		return nil, err
	}

	credential, err := p.certificates.Certificate(ctx, certsource.Coordinates{
		Bucket:     values[paramCertificateBucket],
		Key:        values[paramCertificateKey],
		Passphrase: values[paramCertificatePassphrase],
	})
	if err != nil {
		return nil, &Error{Kind: KindCertificateUnavailable, Message: "unable to load client certificate", Cause: err}
	}
	if credential.Expired(p.now()) {
		return nil, &Error{
			Kind:    KindCertificateExpired,
			Message: fmt.Sprintf("client certificate expired on %s", credential.Leaf.NotAfter.Format(time.RFC3339)),
		}
	}

	identity := registry.Identity{
		Product: *registry.BuildProduct(&registry.ProductHeader{},
			values[paramProductPlatform], values[paramProductName], values[paramProductVersion],
			values[paramVendorID], values[paramVendorQualifier]),
		User: *registry.BuildUser(&registry.UserID{}, userID, values[paramUserQualifier], values[paramProductName]),
	}
	if organisation, ok := registry.BuildOrganisation(&registry.OrganisationID{}, organisationID, values[paramOrganisationQualifier]); ok {
		identity.Organisation = organisation
	}

	log.Info().
		Str("operation", op.Key).
		Str("endpoint", endpoint.String()).
		Str("product", values[paramProductName]+"/"+values[paramProductVersion]).
		Str("user", userID).
		Str("hpio", organisationID).
		Str("certificate", values[paramCertificateBucket]+"/"+values[paramCertificateKey]).
		Msg("Provisioned HI Service client")

	return registry.NewClient(op, endpoint, identity, credential), nil
}

// fetchParameters resolves all deployment parameters and remaps them to their
// relative names. Any missing or blank parameter is a hard failure.
func (p *Provisioner) fetchParameters(ctx context.Context) (map[string]string, error) {
	qualified := make([]string, len(parameterNames))
	for i, name := range parameterNames {
		qualified[i] = p.prefix + "/" + name
	}
	fetched, err := p.params.Fetch(ctx, qualified)
	if err != nil {
		return nil, &Error{Kind: KindConfigUnavailable, Message: "unable to resolve configuration", Cause: err}
	}
	values := make(map[string]string, len(parameterNames))
	for i, name := range parameterNames {
		value := fetched[qualified[i]]
		if value == "" {
			return nil, &Error{Kind: KindConfigUnavailable, Message: "configuration parameter " + qualified[i] + " is blank"}
		}
		values[name] = value
	}
	return values, nil
}

// probeEndpoint performs a lightweight liveness check against the registry
// endpoint before any certificate work happens.
func (p *Provisioner) probeEndpoint(ctx context.Context, endpoint string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &Error{Kind: KindEndpointUnavailable, Message: "invalid endpoint URL", Cause: err}
	}
	response, err := p.probe.Do(request)
	if err != nil {
		return &Error{Kind: KindEndpointUnavailable, Message: "endpoint " + endpoint + " is unreachable", Cause: err}
	}
	defer response.Body.Close()
	if response.StatusCode >= http.StatusBadRequest {
		return &Error{
			Kind:    KindEndpointUnavailable,
			Message: fmt.Sprintf("endpoint %s returned status %d", endpoint, response.StatusCode),
		}
	}
	return nil
}
