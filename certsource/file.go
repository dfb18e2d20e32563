package certsource

import (
	"context"
	"crypto/tls"
	"os"

	"github.com/pkg/errors"

	"github.com/medirex-au/higateway/registry"
)

// FileSource loads the credential from a local PEM file containing both the
// certificate and its private key. The coordinate key is the file path.
// Intended for development environments only.
type FileSource struct{}

func (FileSource) Certificate(_ context.Context, coordinates Coordinates) (*registry.Credential, error) {
	contents, err := os.ReadFile(coordinates.Key)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read certificate file")
	}
	pair, err := tls.X509KeyPair(contents, contents)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load certificate and key")
	}
	return credentialFromKeyPair(pair)
}
