package certsource

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	"github.com/medirex-au/higateway/registry"
)

type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source retrieves PKCS#12 keystores from an S3 bucket.
type S3Source struct {
	api ObjectGetter
}

func NewS3Source(api ObjectGetter) *S3Source {
	return &S3Source{api: api}
}

func (s *S3Source) Certificate(ctx context.Context, coordinates Coordinates) (*registry.Credential, error) {
	response, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(coordinates.Bucket),
		Key:    aws.String(coordinates.Key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "unable to retrieve certificate %s/%s", coordinates.Bucket, coordinates.Key)
	}
	defer response.Body.Close()
	blob, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read certificate blob")
	}
	return Load(blob, coordinates.Passphrase)
}
