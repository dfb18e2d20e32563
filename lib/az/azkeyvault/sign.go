package azkeyvault

import (
	"context"
	"crypto"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azkeys"
	"github.com/lestrrat-go/jwx/v2/jwk"

	"github.com/medirex-au/higateway/lib/to"
)

const keyVaultTimeout = 10 * time.Second

var _ crypto.Signer = &remoteSigner{}

// remoteSigner signs digests with a key vault key through the vault's Sign
// operation.
type remoteSigner struct {
	client    KeysClient
	keyName   string
	publicKey crypto.PublicKey
}

func newRemoteSigner(ctx context.Context, client KeysClient, keyName string) (*remoteSigner, error) {
	keyResponse, err := client.GetKey(ctx, keyName, "", nil)
	if err != nil {
		return nil, fmt.Errorf("unable to get key from Azure KeyVault: %w", err)
	}
	// The response key is JWK-shaped; round-trip through JSON to parse it.
	jwkBytes, _ := json.Marshal(keyResponse.Key)
	parsedKey, err := jwk.ParseKey(jwkBytes)
	if err != nil {
		return nil, fmt.Errorf("unable to parse key as JWK: %w", err)
	}
	var publicKey any
	if err := parsedKey.Raw(&publicKey); err != nil {
		return nil, fmt.Errorf("unable to extract public key: %w", err)
	}
	return &remoteSigner{
		client:    client,
		keyName:   keyName,
		publicKey: publicKey,
	}, nil
}

func (s *remoteSigner) Public() crypto.PublicKey {
	return s.publicKey
}

func (s *remoteSigner) Sign(_ io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	if opts == nil || opts.HashFunc() != crypto.SHA256 {
		return nil, fmt.Errorf("unsupported digest for Azure KeyVault signing")
	}
	ctx, cancel := context.WithTimeout(context.Background(), keyVaultTimeout)
	defer cancel()

	response, err := s.client.Sign(ctx, s.keyName, "", azkeys.SignParameters{
		Algorithm: to.Ptr(azkeys.SignatureAlgorithmRS256),
		Value:     digest,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to sign with Azure KeyVault: %w", err)
	}
	return response.Result, nil
}
