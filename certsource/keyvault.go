package certsource

import (
	"context"

	"github.com/medirex-au/higateway/lib/az/azkeyvault"
	"github.com/medirex-au/higateway/registry"
)

// KeyVaultSource retrieves certificates from an Azure Key Vault, with signing
// delegated to the vault. The coordinate key is the vault certificate name. The
// private key is not exportable, so the credential carries no TLS client
// certificate; deployments behind a gateway that terminates mutual TLS use this
// source.
type KeyVaultSource struct {
	certificates azkeyvault.CertificatesClient
	keys         azkeyvault.KeysClient
}

func NewKeyVaultSource(keyVaultURL string) (*KeyVaultSource, error) {
	certificates, err := azkeyvault.NewCertificatesClient(keyVaultURL)
	if err != nil {
		return nil, err
	}
	keys, err := azkeyvault.NewKeysClient(keyVaultURL)
	if err != nil {
		return nil, err
	}
	return NewKeyVaultSourceWithClients(certificates, keys), nil
}

func NewKeyVaultSourceWithClients(certificates azkeyvault.CertificatesClient, keys azkeyvault.KeysClient) *KeyVaultSource {
	return &KeyVaultSource{certificates: certificates, keys: keys}
}

func (s *KeyVaultSource) Certificate(ctx context.Context, coordinates Coordinates) (*registry.Credential, error) {
	chain, leaf, signer, err := azkeyvault.GetCertificate(ctx, s.certificates, s.keys, coordinates.Key)
	if err != nil {
		return nil, err
	}
	return &registry.Credential{
		Chain:  chain,
		Leaf:   leaf,
		Signer: signer,
	}, nil
}
