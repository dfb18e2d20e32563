package registry

import (
	"context"
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/pkg/errors"
)

// Credential is the certificate identity used for both the TLS client
// authentication of the transport channel and the message-level signature in
// the WS-Security header.
type Credential struct {
	// Chain holds the DER-encoded certificate chain, leaf first.
	Chain [][]byte
	// Leaf is the parsed leaf certificate.
	Leaf *x509.Certificate
	// Signer signs message digests with the certificate's private key. The key
	// may live outside the process (e.g. in a key vault).
	Signer crypto.Signer
	// TLS is the transport client certificate, nil when the private key cannot
	// be used for TLS (remote signing keys).
	TLS *tls.Certificate
}

// Expired reports whether the credential is past its not-after timestamp.
func (c *Credential) Expired(now time.Time) bool {
	return c.Leaf == nil || now.After(c.Leaf.NotAfter)
}

// Client is a single-use handle bound to one operation, endpoint, identity set
// and credential. A fresh handle is provisioned per invocation; the handle
// performs no retries and no pooling of its own.
type Client struct {
	op         Descriptor
	endpoint   *url.URL
	identity   Identity
	credential *Credential
	httpClient *http.Client
	now        func() time.Time

	invoked     bool
	rawRequest  *string
	rawResponse *string
}

// NewClient builds a client handle. Calls to the registry require mutual TLS,
// so the handle gets its own transport configured with the credential's client
// certificate.
func NewClient(op Descriptor, endpoint *url.URL, identity Identity, credential *Credential) *Client {
	tlsConfig := &tls.Config{
		MinVersion:    tls.VersionTLS12,
		Renegotiation: tls.RenegotiateOnceAsClient,
	}
	if credential.TLS != nil {
		tlsConfig.Certificates = []tls.Certificate{*credential.TLS}
	}
	return &Client{
		op:         op,
		endpoint:   endpoint,
		identity:   identity,
		credential: credential,
		httpClient: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
		now: time.Now,
	}
}

// Operation returns the descriptor the handle is bound to.
func (c *Client) Operation() Descriptor {
	return c.op
}

// RawRequest returns the XML request of the last call, nil before any call.
func (c *Client) RawRequest() *string {
	return c.rawRequest
}

// RawResponse returns the XML response of the last call, nil when no response
// was received.
func (c *Client) RawResponse() *string {
	return c.rawResponse
}

// Invoke performs the remote call and returns the operation's result element
// serialized as JSON. A SOAP fault is returned as a *FaultError; any other
// error is a transport or protocol failure. A handle invokes at most once.
func (c *Client) Invoke(ctx context.Context, request *Request) (string, error) {
	if c.invoked {
		return "", errors.New("client handle already invoked")
	}
	c.invoked = true

	payload, err := c.op.Build(request)
	if err != nil {
		return "", err
	}
	envelope, err := buildEnvelope(c.op, c.endpoint.String(), c.identity, c.credential, c.now(), payload)
	if err != nil {
		return "", err
	}
	c.rawRequest = &envelope

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), strings.NewReader(envelope))
	if err != nil {
		return "", errors.Wrap(err, "unable to create HTTP request")
	}
	httpRequest.Header.Set("Content-Type", fmt.Sprintf("application/soap+xml; charset=utf-8; action=%q", c.op.Action))

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return "", errors.Wrapf(err, "call to %s failed", c.op.Key)
	}
	defer httpResponse.Body.Close()
	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return "", errors.Wrap(err, "unable to read response body")
	}
	raw := string(responseBody)
	c.rawResponse = &raw

	if fault := parseFault(c.op.Key, raw); fault != nil {
		return "", fault
	}
	if httpResponse.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response status: %d", httpResponse.StatusCode)
	}
	return c.extractResult(raw)
}

// extractResult locates the operation's declared result element in the response
// body and converts it to JSON.
func (c *Client) extractResult(raw string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return "", fmt.Errorf("unable to parse response for %s: %w", c.op.Key, err)
	}
	result := doc.FindElement("//" + c.op.Result)
	if result == nil {
		return "", fmt.Errorf("%s element not found in response", c.op.Result)
	}
	encoded, err := json.Marshal(elementToValue(result))
	if err != nil {
		return "", fmt.Errorf("unable to serialize %s: %w", c.op.Result, err)
	}
	return string(encoded), nil
}

// elementToValue converts an XML element to a JSON-shaped value: leaf elements
// become their trimmed text, nested elements become objects, repeated sibling
// tags collapse into arrays.
func elementToValue(element *etree.Element) any {
	children := element.ChildElements()
	if len(children) == 0 {
		return strings.TrimSpace(element.Text())
	}
	object := make(map[string]any, len(children))
	for _, child := range children {
		value := elementToValue(child)
		existing, seen := object[child.Tag]
		if !seen {
			object[child.Tag] = value
			continue
		}
		if array, ok := existing.([]any); ok {
			object[child.Tag] = append(array, value)
		} else {
			object[child.Tag] = []any{existing, value}
		}
	}
	return object
}
