package azkeyvault

import (
	"context"
	"crypto"
	"crypto/x509"
	"fmt"
)

// GetCertificate retrieves a certificate from the key vault together with a
// signer backed by its non-exportable private key. Signing round-trips to the
// vault; the key material never enters the process.
func GetCertificate(ctx context.Context, certificates CertificatesClient, keys KeysClient, name string) ([][]byte, *x509.Certificate, crypto.Signer, error) {
	response, err := certificates.GetCertificate(ctx, name, "", nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to get certificate from Azure Key Vault: %w", err)
	}
	leaf, err := x509.ParseCertificate(response.CER)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to parse certificate: %w", err)
	}
	signer, err := newRemoteSigner(ctx, keys, name)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("unable to get certificate private key: %w", err)
	}
	return [][]byte{leaf.Raw}, leaf, signer, nil
}
