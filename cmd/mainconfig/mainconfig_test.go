package mainconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	appconfig "github.com/wolfman30/clinic-booking/internal/config"
)

func TestEndpointResolverOverridesKnownServices(t *testing.T) {
	resolver := localResolver("http://localhost:4566", "us-east-1")

	for _, service := range []string{sqs.ServiceID, sesv2.ServiceID} {
		ep, err := resolver.ResolveEndpoint(service, "us-east-1")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", service, err)
		}
		if ep.URL != "http://localhost:4566" || ep.SigningRegion != "us-east-1" {
			t.Fatalf("%s: unexpected endpoint %+v", service, ep)
		}
	}

	_, err := resolver.ResolveEndpoint("Route 53", "us-east-1")
	var notFound *aws.EndpointNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected EndpointNotFoundError, got %v", err)
	}
}

func TestLoadAWSConfigStaticCredentials(t *testing.T) {
	cfg := &appconfig.Config{
		AWSRegion:           "ap-southeast-1",
		AWSAccessKeyID:      "test",
		AWSSecretAccessKey:  "secret",
		AWSEndpointOverride: "http://localhost:4566",
	}

	awsCfg, err := LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if awsCfg.Region != "ap-southeast-1" {
		t.Fatalf("unexpected region %s", awsCfg.Region)
	}
	creds, err := awsCfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "test" {
		t.Fatalf("expected static credentials, got %s", creds.AccessKeyID)
	}
	if awsCfg.EndpointResolverWithOptions == nil {
		t.Fatalf("expected endpoint override resolver")
	}
}

func TestLoadOptionsSkipsPartialCredentials(t *testing.T) {
	cfg := &appconfig.Config{AWSRegion: "us-east-1", AWSAccessKeyID: "only-key"}
	if got := len(loadOptions(cfg)); got != 1 {
		t.Fatalf("expected region option only, got %d options", got)
	}

	var lo config.LoadOptions
	for _, opt := range loadOptions(&appconfig.Config{AWSRegion: "us-east-1", AWSEndpointOverride: " http://localhost:4566 "}) {
		if err := opt(&lo); err != nil {
			t.Fatalf("apply option: %v", err)
		}
	}
	if lo.Region != "us-east-1" || lo.Credentials != nil {
		t.Fatalf("unexpected load options %+v", lo)
	}
	ep, err := lo.EndpointResolverWithOptions.ResolveEndpoint(dynamodb.ServiceID, "us-east-1")
	if err != nil || ep.URL != "http://localhost:4566" {
		t.Fatalf("expected trimmed override for dynamodb, got %+v %v", ep, err)
	}
}
