package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFault(t *testing.T) {
	t.Run("soap 1.2", func(t *testing.T) {
		fault := parseFault("searchIHI", searchIHIFaultResponse)
		require.NotNil(t, fault)
		assert.Equal(t, "Processing error", fault.FaultString)
		require.NotNil(t, fault.Detail)
	})
	t.Run("soap 1.1", func(t *testing.T) {
		const response = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>Internal error</faultstring>
      <detail>
        <searchIHIFault>
          <serviceMessagesType>
            <serviceMessage>
              <severity>Fatal</severity>
              <code>WSE-0045</code>
              <reason>Service unavailable</reason>
            </serviceMessage>
          </serviceMessagesType>
        </searchIHIFault>
      </detail>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`
		fault := parseFault("searchIHI", response)
		require.NotNil(t, fault)
		assert.Equal(t, "Internal error", fault.FaultString)
		messages := fault.ServiceMessages()
		require.Len(t, messages, 1)
		assert.Equal(t, "Fatal", messages[0].Severity)
		assert.Equal(t, "WSE-0045", messages[0].Code)
	})
	t.Run("no fault", func(t *testing.T) {
		assert.Nil(t, parseFault("searchIHI", searchIHIResponse))
	})
	t.Run("not xml", func(t *testing.T) {
		assert.Nil(t, parseFault("searchIHI", "gateway timeout"))
	})
}

func TestFaultError_ServiceMessages(t *testing.T) {
	t.Run("multiple messages", func(t *testing.T) {
		const response = `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope">
  <s:Body>
    <s:Fault>
      <s:Reason><s:Text xml:lang="en">Validation failed</s:Text></s:Reason>
      <s:Detail>
        <updateIHIFault xmlns="http://ns.electronichealth.net.au/hi/svc/ConsumerUpdateIHI/3.0">
          <serviceMessagesType>
            <serviceMessage>
              <severity>Error</severity>
              <code>WSE-0031</code>
              <reason>Invalid date of birth</reason>
            </serviceMessage>
            <serviceMessage>
              <severity>Warning</severity>
              <code>WSE-0102</code>
              <reason>Address could not be validated</reason>
            </serviceMessage>
          </serviceMessagesType>
        </updateIHIFault>
      </s:Detail>
    </s:Fault>
  </s:Body>
</s:Envelope>`
		fault := parseFault("updateIHI", response)
		require.NotNil(t, fault)
		messages := fault.ServiceMessages()
		require.Len(t, messages, 2)
		assert.Equal(t, "Invalid date of birth", messages[0].Reason)
		assert.Equal(t, "Warning", messages[1].Severity)
	})
	t.Run("operation without a registered shape", func(t *testing.T) {
		fault := parseFault("readReferenceData", searchIHIFaultResponse)
		require.NotNil(t, fault)
		assert.Nil(t, fault.ServiceMessages())
	})
	t.Run("detail without the expected shape", func(t *testing.T) {
		const response = `<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope">
  <s:Body>
    <s:Fault>
      <s:Reason><s:Text>denied</s:Text></s:Reason>
      <s:Detail><accessDenied/></s:Detail>
    </s:Fault>
  </s:Body>
</s:Envelope>`
		fault := parseFault("searchIHI", response)
		require.NotNil(t, fault)
		assert.Nil(t, fault.ServiceMessages())
	})
}

func TestFaultShapeFor(t *testing.T) {
	shape, ok := FaultShapeFor("searchForProviderOrganisation")
	require.True(t, ok)
	assert.Equal(t, "searchForProviderOrganisationFault", shape)

	_, ok = FaultShapeFor("readReferenceData")
	assert.False(t, ok)
}
