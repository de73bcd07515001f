package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

func TestSender_Send(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		attr, ok := in.MessageAttributes["AWS.SNS.SMS.SMSType"]
		return aws.ToString(in.PhoneNumber) == "+15550001111" &&
			aws.ToString(in.Message) == "Your OTP code is 123456" &&
			ok && aws.ToString(attr.StringValue) == "Transactional"
	})).Return(&sns.PublishOutput{MessageId: aws.String("m-1")}, nil)

	s := &Sender{client: pub}
	require.NoError(t, s.Send(context.Background(), "+15550001111", "ignored", "Your OTP code is 123456"))
	pub.AssertExpectations(t)
}

func TestSender_SendErrors(t *testing.T) {
	t.Run("no phone number", func(t *testing.T) {
		pub := new(mockPublisher)
		s := &Sender{client: pub}
		assert.ErrorIs(t, s.Send(context.Background(), "", "", "b"), ErrNoPhoneNumber)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("publish failure is wrapped", func(t *testing.T) {
		boom := errors.New("throttled")
		pub := new(mockPublisher)
		pub.On("Publish", mock.Anything, mock.Anything).Return(nil, boom)
		s := &Sender{client: pub}
		err := s.Send(context.Background(), "+15550001111", "", "b")
		assert.ErrorIs(t, err, boom)
		assert.ErrorContains(t, err, "publish sms")
	})
}
