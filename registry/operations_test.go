package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperations(t *testing.T) {
	t.Run("keys are unique", func(t *testing.T) {
		seen := map[string]bool{}
		for _, op := range Operations() {
			assert.False(t, seen[op.Key], op.Key)
			seen[op.Key] = true
		}
	})
	t.Run("every operation is complete", func(t *testing.T) {
		for _, op := range Operations() {
			assert.NotEmpty(t, op.Label, op.Key)
			assert.NotEmpty(t, op.Action, op.Key)
			assert.NotEmpty(t, op.Result, op.Key)
			assert.NotNil(t, op.Build, op.Key)
		}
	})
}

func TestLookupIn(t *testing.T) {
	op, ok := LookupIn(GroupConsumer, "searchIHI")
	require.True(t, ok)
	assert.Equal(t, "searchIHI", op.Key)
	assert.Equal(t, FamilyConsumerSearch, op.Family)
	assert.Equal(t, "searchIHIResult", op.Result)

	// Operations are not reachable through another surface.
	_, ok = LookupIn(GroupProviderIndividual, "searchIHI")
	assert.False(t, ok)

	_, ok = LookupIn(GroupConsumer, "unknownOperation")
	assert.False(t, ok)
}

func TestBuildCreateProvisionalIHI_defaults(t *testing.T) {
	body, err := buildCreateProvisionalIHI(&Request{FamilyName: "Nguyen", GivenName: "Anh"})
	require.NoError(t, err)
	assert.Equal(t, DefaultDateOfBirth, body.FindElement("dateOfBirth").Text())
	assert.Equal(t, DefaultDateOfBirthAccuracy, body.FindElement("dateOfBirthAccuracy").Text())
	assert.Equal(t, DefaultSex, body.FindElement("sex").Text())
}

func TestBuildCreateProvisionalIHI_givenValuesKept(t *testing.T) {
	body, err := buildCreateProvisionalIHI(&Request{
		FamilyName:          "Nguyen",
		DateOfBirth:         "1980-05-04",
		DateOfBirthAccuracy: "AAA",
		Sex:                 "F",
	})
	require.NoError(t, err)
	assert.Equal(t, "1980-05-04", body.FindElement("dateOfBirth").Text())
	assert.Equal(t, "AAA", body.FindElement("dateOfBirthAccuracy").Text())
	assert.Equal(t, "F", body.FindElement("sex").Text())
}

func TestBuildSearchIHI_qualifiesIdentifiers(t *testing.T) {
	body, err := buildSearchIHI(&Request{IHINumber: "8003601234567890"})
	require.NoError(t, err)
	assert.Equal(t, QualifierIHI+"/8003601234567890", body.FindElement("ihiNumber").Text())
	assert.Nil(t, body.FindElement("medicareCardNumber"))
}

func TestBuildMergeProvisionalIHI_requiresBothNumbers(t *testing.T) {
	_, err := buildMergeProvisionalIHI(&Request{IHINumber: "8003601234567890"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicateIhiNumber")

	_, err = buildMergeProvisionalIHI(&Request{DuplicateIHINumber: "8003601234567891"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ihiNumber")
}

func TestBuildReadReferenceData(t *testing.T) {
	_, err := buildReadReferenceData(&Request{})
	require.Error(t, err)

	body, err := buildReadReferenceData(&Request{ReferenceTypes: []string{"sex", "state"}})
	require.NoError(t, err)
	assert.Len(t, body.FindElements("elementName"), 2)
}
