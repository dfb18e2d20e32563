package certsource

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("empty blob", func(t *testing.T) {
		_, err := Load(nil, "secret")
		require.EqualError(t, err, "certificate blob is empty")
	})
	t.Run("not a keystore", func(t *testing.T) {
		_, err := Load([]byte("not pkcs12"), "secret")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to decode PKCS#12 keystore")
	})
}

// writeKeyPairPEM writes a self-signed certificate and its key as a combined
// PEM file, the layout FileSource expects.
func writeKeyPairPEM(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "higateway test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	var contents strings.Builder
	require.NoError(t, pem.Encode(&contents, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, pem.Encode(&contents, &pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))

	path := filepath.Join(t.TempDir(), "credential.pem")
	require.NoError(t, os.WriteFile(path, []byte(contents.String()), 0600))
	return path
}

func TestFileSource(t *testing.T) {
	t.Run("loads a combined PEM file", func(t *testing.T) {
		path := writeKeyPairPEM(t)
		credential, err := FileSource{}.Certificate(context.Background(), Coordinates{Key: path})
		require.NoError(t, err)
		require.NotNil(t, credential.Leaf)
		assert.Equal(t, "higateway test", credential.Leaf.Subject.CommonName)
		assert.NotNil(t, credential.Signer)
		assert.NotNil(t, credential.TLS)
		assert.False(t, credential.Expired(time.Now()))
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := FileSource{}.Certificate(context.Background(), Coordinates{Key: "/nonexistent.pem"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to read certificate file")
	})
	t.Run("not a key pair", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "garbage.pem")
		require.NoError(t, os.WriteFile(path, []byte("garbage"), 0600))
		_, err := FileSource{}.Certificate(context.Background(), Coordinates{Key: path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to load certificate and key")
	})
}

type fakeObjectGetter struct {
	blob  []byte
	err   error
	input *s3.GetObjectInput
}

func (f *fakeObjectGetter) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(f.blob)))}, nil
}

func TestS3Source(t *testing.T) {
	t.Run("requests the configured object", func(t *testing.T) {
		api := &fakeObjectGetter{blob: []byte("not pkcs12")}
		_, err := NewS3Source(api).Certificate(context.Background(), Coordinates{
			Bucket:     "higateway-certificates",
			Key:        "site-1.p12",
			Passphrase: "secret",
		})
		// The blob is not a valid keystore, but the request must be shaped right.
		require.Error(t, err)
		require.NotNil(t, api.input)
		assert.Equal(t, "higateway-certificates", aws.ToString(api.input.Bucket))
		assert.Equal(t, "site-1.p12", aws.ToString(api.input.Key))
	})
	t.Run("retrieval failure", func(t *testing.T) {
		api := &fakeObjectGetter{err: fmt.Errorf("access denied")}
		_, err := NewS3Source(api).Certificate(context.Background(), Coordinates{Bucket: "b", Key: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to retrieve certificate b/k")
		assert.Contains(t, err.Error(), "access denied")
	})
	t.Run("empty object", func(t *testing.T) {
		api := &fakeObjectGetter{}
		_, err := NewS3Source(api).Certificate(context.Background(), Coordinates{Bucket: "b", Key: "k"})
		require.EqualError(t, err, "certificate blob is empty")
	})
}
