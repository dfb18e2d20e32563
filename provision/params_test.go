package provision

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSSM answers every requested name with "<name>-value" and records the
// batch sizes it saw.
type fakeSSM struct {
	batches [][]string
	decrypt *bool
	err     error
	invalid []string
}

func (f *fakeSSM) GetParameters(_ context.Context, params *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.batches = append(f.batches, params.Names)
	f.decrypt = params.WithDecryption
	if f.err != nil {
		return nil, f.err
	}
	if len(f.invalid) > 0 {
		return &ssm.GetParametersOutput{InvalidParameters: f.invalid}, nil
	}
	output := &ssm.GetParametersOutput{}
	for _, name := range params.Names {
		output.Parameters = append(output.Parameters, types.Parameter{
			Name:  aws.String(name),
			Value: aws.String(name + "-value"),
		})
	}
	return output, nil
}

func names(n int) []string {
	result := make([]string, n)
	for i := range result {
		result[i] = fmt.Sprintf("/higateway/param-%d", i)
	}
	return result
}

func TestSSMParameterStore_Fetch(t *testing.T) {
	api := &fakeSSM{}
	store := NewSSMParameterStore(api, 0)

	values, err := store.Fetch(context.Background(), names(11))
	require.NoError(t, err)
	assert.Len(t, values, 11)
	assert.Equal(t, "/higateway/param-0-value", values["/higateway/param-0"])

	// Lookups above the batch ceiling are chunked.
	require.Len(t, api.batches, 2)
	assert.Len(t, api.batches[0], 10)
	assert.Len(t, api.batches[1], 1)
}

func TestSSMParameterStore_Fetch_decryptsValues(t *testing.T) {
	api := &fakeSSM{}
	store := NewSSMParameterStore(api, 0)
	_, err := store.Fetch(context.Background(), names(1))
	require.NoError(t, err)
	require.NotNil(t, api.decrypt)
	assert.True(t, *api.decrypt)
}

func TestSSMParameterStore_Fetch_invalidParameter(t *testing.T) {
	api := &fakeSSM{invalid: []string{"/higateway/param-3"}}
	store := NewSSMParameterStore(api, 0)
	_, err := store.Fetch(context.Background(), names(5))
	require.EqualError(t, err, "parameter /higateway/param-3 not found")
}

func TestSSMParameterStore_Fetch_apiError(t *testing.T) {
	api := &fakeSSM{err: fmt.Errorf("throttled")}
	store := NewSSMParameterStore(api, 0)
	_, err := store.Fetch(context.Background(), names(2))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSSMParameterStore_Fetch_cachesWarmInvocations(t *testing.T) {
	api := &fakeSSM{}
	store := NewSSMParameterStore(api, time.Minute)

	first, err := store.Fetch(context.Background(), names(3))
	require.NoError(t, err)
	require.Len(t, api.batches, 1)

	second, err := store.Fetch(context.Background(), names(3))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	// No further API calls on the warm path.
	assert.Len(t, api.batches, 1)
}

func TestSSMParameterStore_Fetch_partialCacheHit(t *testing.T) {
	api := &fakeSSM{}
	store := NewSSMParameterStore(api, time.Minute)

	_, err := store.Fetch(context.Background(), names(2))
	require.NoError(t, err)

	values, err := store.Fetch(context.Background(), names(4))
	require.NoError(t, err)
	assert.Len(t, values, 4)
	require.Len(t, api.batches, 2)
	// Only the two uncached names go out.
	assert.Len(t, api.batches[1], 2)
}
