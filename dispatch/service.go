// Package dispatch ties the gateway together: it validates the caller's input
// bag, resolves the target operation, provisions a client, classifies the
// search variant, invokes the registry and wraps whatever happened into the
// uniform response envelope.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/medirex-au/higateway/provision"
	"github.com/medirex-au/higateway/registry"
)

// ClientProvisioner builds a single-use client handle for one operation.
type ClientProvisioner interface {
	Provision(ctx context.Context, operationKey string, userID string, organisationID string) (*registry.Client, error)
}

type Service struct {
	provisioner  ClientProvisioner
	functionName string
}

func New(provisioner ClientProvisioner, functionName string) *Service {
	return &Service{
		provisioner:  provisioner,
		functionName: functionName,
	}
}

func (s *Service) HandleConsumer(ctx context.Context, payload []byte) []byte {
	return s.Handle(ctx, registry.GroupConsumer, payload)
}

func (s *Service) HandleProviderIndividual(ctx context.Context, payload []byte) []byte {
	return s.Handle(ctx, registry.GroupProviderIndividual, payload)
}

func (s *Service) HandleProviderOrganisation(ctx context.Context, payload []byte) []byte {
	return s.Handle(ctx, registry.GroupProviderOrganisation, payload)
}

// Handle processes one invocation against the given entry surface. It always
// returns a well-formed envelope; failures at any stage short-circuit with a
// FAILURE envelope carrying the stage's error code.
func (s *Service) Handle(ctx context.Context, group registry.Group, payload []byte) []byte {
	var request registry.Request
	if err := json.Unmarshal(payload, &request); err != nil {
		return BuildEnvelope(s.functionName, StatusFailure, SeverityError, CodeParam, "invalid request payload: "+err.Error(), nil, nil)
	}

	// Mandatory fields, checked in fixed order.
	for _, check := range []struct {
		value string
		field string
	}{
		{request.Mode, "internalMode"},
		{request.UserID, "internalUserId"},
		{request.HPIO, "internalHPIO"},
	} {
		if strings.TrimSpace(check.value) == "" {
			return BuildEnvelope(s.functionName, StatusFailure, SeverityError, CodeParam, check.field+" is required", nil, nil)
		}
	}

	op, ok := registry.LookupIn(group, request.Mode)
	if !ok {
		return BuildEnvelope(s.functionName, StatusFailure, SeverityError, CodeError, "unsupported operation: "+request.Mode, nil, nil)
	}

	client, err := s.provisioner.Provision(ctx, op.Key, request.UserID, request.HPIO)
	if err != nil {
		code := CodeError
		var provisionErr *provision.Error
		if errors.As(err, &provisionErr) && provisionErr.CertificateRelated() {
			code = CodeCertificate
		}
		log.Error().Err(err).Msgf("Unable to provision client for %s", op.Key)
		return BuildEnvelope(op.Label, StatusFailure, SeverityError, code, err.Error(), nil, nil)
	}

	if op.Family != registry.FamilyNone {
		variant, ok := Classify(op.Family, &request)
		if !ok {
			return BuildEnvelope(op.Label, StatusFailure, SeverityError, CodeParam,
				"minimum search criteria not met for "+op.Key, nil, nil)
		}
		log.Debug().Msgf("Classified %s request as %s search", op.Key, variant)
	}

	result, err := client.Invoke(ctx, &request)
	if err != nil {
		var fault *registry.FaultError
		if errors.As(err, &fault) {
			severity, code, reason := NormalizeFault(fault)
			return BuildEnvelope(op.Label, StatusFailure, severity, code, reason, client.RawRequest(), client.RawResponse())
		}
		log.Error().Err(err).Msgf("Call to %s failed", op.Key)
		return BuildEnvelope(op.Label, StatusFailure, SeverityError, CodeError, err.Error(), client.RawRequest(), client.RawResponse())
	}
	return BuildEnvelope(op.Label, StatusSuccess, SeverityInfo, CodeOK, result, client.RawRequest(), client.RawResponse())
}

// RegisterHandlers mounts the three entry surfaces on the local HTTP server.
func (s *Service) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /consumer", s.httpHandler(registry.GroupConsumer))
	mux.HandleFunc("POST /provider/individual", s.httpHandler(registry.GroupProviderIndividual))
	mux.HandleFunc("POST /provider/organisation", s.httpHandler(registry.GroupProviderOrganisation))
}

func (s *Service) httpHandler(group registry.Group) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		payload, err := io.ReadAll(request.Body)
		if err != nil {
			http.Error(writer, "unable to read request body", http.StatusBadRequest)
			return
		}
		writer.Header().Set("Content-Type", "application/json")
		writer.Write(s.Handle(request.Context(), group, payload))
	}
}
