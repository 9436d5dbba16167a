package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-access-gate/internal/config"
)

// Publisher is the subset of the SNS client the escalator uses.
type Publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Escalator texts the operator's phone through AWS SNS.
type Escalator struct {
	client Publisher
	phone  string
}

// NewEscalator returns an SNS-backed escalator for cfg.OperatorPhone.
// It fails when no operator phone is configured.
func NewEscalator(cfg *config.Config) (*Escalator, error) {
	if cfg.OperatorPhone == "" {
		return nil, fmt.Errorf("OPERATOR_PHONE not set")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return NewEscalatorWithClient(sns.NewFromConfig(awsCfg), cfg.OperatorPhone), nil
}

func NewEscalatorWithClient(client Publisher, phone string) *Escalator {
	return &Escalator{client: client, phone: phone}
}

func (e *Escalator) Escalate(ctx context.Context, message string) error {
	_, err := e.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(e.phone),
		Message:     aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
