package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/jellydator/ttlcache/v3"
)

// maxParameterBatch is the parameter store's ceiling on names per request.
const maxParameterBatch = 10

// ParameterStore resolves configuration parameters by name. Every requested
// name must resolve; a missing name is an error, never a silent default.
type ParameterStore interface {
	Fetch(ctx context.Context, names []string) (map[string]string, error)
}

type SSMAPI interface {
	GetParameters(ctx context.Context, params *ssm.GetParametersInput, optFns ...func(*ssm.Options)) (*ssm.GetParametersOutput, error)
}

// SSMParameterStore fetches parameters from AWS Systems Manager Parameter
// Store, decrypting secure values. Lookups are chunked to the store's batch
// ceiling and cached for warm invocations.
type SSMParameterStore struct {
	api   SSMAPI
	cache *ttlcache.Cache[string, string]
}

func NewSSMParameterStore(api SSMAPI, cacheTTL time.Duration) *SSMParameterStore {
	store := &SSMParameterStore{api: api}
	if cacheTTL > 0 {
		store.cache = ttlcache.New[string, string](ttlcache.WithTTL[string, string](cacheTTL))
	}
	return store
}

func (s *SSMParameterStore) Fetch(ctx context.Context, names []string) (map[string]string, error) {
	values := make(map[string]string, len(names))
	var missing []string
	for _, name := range names {
		if s.cache != nil {
			if item := s.cache.Get(name); item != nil {
				values[name] = item.Value()
				continue
			}
		}
		missing = append(missing, name)
	}

	for start := 0; start < len(missing); start += maxParameterBatch {
		end := start + maxParameterBatch
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]
		response, err := s.api.GetParameters(ctx, &ssm.GetParametersInput{
			Names:          batch,
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return nil, fmt.Errorf("parameter lookup failed: %w", err)
		}
		if len(response.InvalidParameters) > 0 {
			return nil, fmt.Errorf("parameter %s not found", response.InvalidParameters[0])
		}
		for _, parameter := range response.Parameters {
			name := aws.ToString(parameter.Name)
			value := aws.ToString(parameter.Value)
			values[name] = value
			if s.cache != nil {
				s.cache.Set(name, value, ttlcache.DefaultTTL)
			}
		}
	}

	for _, name := range names {
		if _, ok := values[name]; !ok {
			return nil, fmt.Errorf("parameter %s missing from response", name)
		}
	}
	return values, nil
}
