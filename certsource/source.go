// Package certsource retrieves the client credential used to authenticate with
// the HI Service. The blob store coordinates come from the parameter store per
// invocation; the backend (S3, Azure Key Vault or local files) is fixed per
// deployment.
package certsource

import (
	"context"
	"crypto"
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pkcs12"

	"github.com/medirex-au/higateway/registry"
)

// Coordinates locate a certificate within a source: a container (S3 bucket,
// unused for other backends), a key (object key, vault certificate name or file
// path) and the keystore passphrase.
type Coordinates struct {
	Bucket     string
	Key        string
	Passphrase string
}

type Source interface {
	Certificate(ctx context.Context, coordinates Coordinates) (*registry.Credential, error)
}

// Load decodes a PKCS#12 keystore blob into a credential.
func Load(blob []byte, passphrase string) (*registry.Credential, error) {
	if len(blob) == 0 {
		return nil, errors.New("certificate blob is empty")
	}
	key, leaf, err := pkcs12.Decode(blob, passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode PKCS#12 keystore")
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, errors.New("keystore private key cannot sign")
	}
	return &registry.Credential{
		Chain:  [][]byte{leaf.Raw},
		Leaf:   leaf,
		Signer: signer,
		TLS: &tls.Certificate{
			Certificate: [][]byte{leaf.Raw},
			PrivateKey:  key,
			Leaf:        leaf,
		},
	}, nil
}

func credentialFromKeyPair(pair tls.Certificate) (*registry.Credential, error) {
	leaf := pair.Leaf
	if leaf == nil {
		parsed, err := x509.ParseCertificate(pair.Certificate[0])
		if err != nil {
			return nil, errors.Wrap(err, "unable to parse certificate")
		}
		leaf = parsed
		pair.Leaf = parsed
	}
	signer, ok := pair.PrivateKey.(crypto.Signer)
	if !ok {
		return nil, errors.New("private key cannot sign")
	}
	return &registry.Credential{
		Chain:  pair.Certificate,
		Leaf:   leaf,
		Signer: signer,
		TLS:    &pair,
	}, nil
}
