package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medirex-au/higateway/certsource"
	"github.com/medirex-au/higateway/dispatch"
	"github.com/medirex-au/higateway/healthcheck"
	"github.com/medirex-au/higateway/provision"
	"github.com/medirex-au/higateway/registry"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	zerolog.SetGlobalLevel(config.LogLevel)

	service, err := buildService(context.Background(), *config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize gateway")
	}

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		group := registry.Group(config.FunctionGroup)
		log.Info().Msgf("Serving %s operations as %s", group, config.FunctionName)
		lambda.Start(functionHandler(service, group))
		return
	}

	mux := http.NewServeMux()
	service.RegisterHandlers(mux)
	healthcheck.New().RegisterHandlers(mux)
	log.Info().Msgf("Public interface listens on %s", config.Public.Address)
	if err := http.ListenAndServe(config.Public.Address, mux); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func buildService(ctx context.Context, config Config) (*dispatch.Service, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS configuration: %w", err)
	}
	parameters := provision.NewSSMParameterStore(ssm.NewFromConfig(awsConfig), config.Parameters.CacheTTL)

	var certificates certsource.Source
	switch config.Certificate.Source {
	case "s3":
		certificates = certsource.NewS3Source(s3.NewFromConfig(awsConfig))
	case "keyvault":
		certificates, err = certsource.NewKeyVaultSource(config.Certificate.KeyVaultURL)
		if err != nil {
			return nil, fmt.Errorf("unable to create Azure Key Vault source: %w", err)
		}
	case "file":
		certificates = certsource.FileSource{}
	}

	provisioner := provision.New(parameters, certificates, config.Parameters.Prefix)
	return dispatch.New(provisioner, config.FunctionName), nil
}

func functionHandler(service *dispatch.Service, group registry.Group) func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	return func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
		return service.Handle(ctx, group, payload), nil
	}
}
