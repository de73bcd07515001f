package sns

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

var ErrNoPhoneNumber = errors.New("sns: no phone number")

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers SMS messages through AWS SNS.
type Sender struct {
	client publisher
}

// NewSender builds a Sender from a resolved AWS config. endpoint overrides the
// SNS endpoint when set (LocalStack).
func NewSender(awsCfg aws.Config, endpoint string) *Sender {
	return &Sender{client: sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})}
}

// Send publishes body as a transactional SMS to the E.164 number in to.
// SMS has no subject line; subject is ignored.
func (s *Sender) Send(ctx context.Context, to, _, body string) error {
	if to == "" {
		return ErrNoPhoneNumber
	}
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish sms: %w", err)
	}
	return nil
}
