package db

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// rdsTokenLifetime is how long RDS accepts a signed auth token.
const rdsTokenLifetime = 15 * time.Minute

// RDSTokenProvider signs RDS IAM auth tokens for the configured database user.
// Credentials come from the default AWS chain and are resolved once, on the
// first token request.
type RDSTokenProvider struct {
	endpoint string
	region   string
	username string

	loadCredentials func(ctx context.Context, region string) (aws.CredentialsProvider, error)
	now             func() time.Time

	once     sync.Once
	creds    aws.CredentialsProvider
	credsErr error
}

var _ TokenProvider = (*RDSTokenProvider)(nil)

// NewRDSTokenProvider validates the parts of cfg RDS IAM auth needs.
// A missing host, port, region or user is a configuration error.
func NewRDSTokenProvider(cfg *sparkify.ConnectionConfig) (*RDSTokenProvider, error) {
	var missing string
	switch {
	case cfg.Host == "":
		missing = "host"
	case cfg.Port <= 0:
		missing = "port"
	case cfg.AWSRegion == "":
		missing = "region (use --aws-region or $AWS_REGION)"
	case cfg.Username == "":
		missing = "database username"
	}
	if missing != "" {
		return nil, fmt.Errorf("AWS IAM auth requires %s: %w", missing, sparkify.ErrInvalidConfig)
	}

	return &RDSTokenProvider{
		endpoint:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		region:          cfg.AWSRegion,
		username:        cfg.Username,
		loadCredentials: defaultAWSCredentials,
		now:             time.Now,
	}, nil
}

func defaultAWSCredentials(ctx context.Context, region string) (aws.CredentialsProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return cfg.Credentials, nil
}

// GetToken signs a token usable as the connection password.
func (p *RDSTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	p.once.Do(func() {
		p.creds, p.credsErr = p.loadCredentials(ctx, p.region)
	})
	if p.credsErr != nil {
		return "", time.Time{}, fmt.Errorf("failed to load AWS credentials: %w", p.credsErr)
	}

	issued := p.now()
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, p.creds)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign RDS auth token: %w", err)
	}
	return token, issued.Add(rdsTokenLifetime), nil
}

func (p *RDSTokenProvider) String() string {
	return fmt.Sprintf("RDS IAM (%s@%s, %s)", p.username, p.endpoint, p.region)
}
