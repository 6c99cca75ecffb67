package sns

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/otp-dispatch/internal/config"
	"github.com/otp-dispatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	if out, _ := args.Get(0).(*sns.PublishOutput); out != nil {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func otpRequest(to, code string) *domain.DispatchRequest {
	return &domain.DispatchRequest{
		To: to,
		Template: domain.Template{Components: []domain.Component{
			{Type: domain.ComponentTypeBody, Parameters: []domain.Parameter{{Type: domain.ParameterTypeText, Text: code}}},
		}},
	}
}

func TestSend_PublishesCode(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.PhoneNumber) == "+15551234567" &&
			aws.ToString(in.Message) == "Your verification code: 482913"
	})).Return(&sns.PublishOutput{MessageId: aws.String("msg-1")}, nil)

	res, err := NewSenderWithClient(pub).Send(context.Background(), otpRequest("+15551234567", "482913"))

	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "msg-1", res.MessageID)
	pub.AssertExpectations(t)
}

func TestSend_APIRejectionIsAResult(t *testing.T) {
	pub := &mockPublisher{}
	apiErr := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: http.StatusBadRequest}},
			Err:      errors.New("InvalidParameter: Invalid parameter: PhoneNumber"),
		},
	}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("operation error SNS: Publish, %w", apiErr))

	res, err := NewSenderWithClient(pub).Send(context.Background(), otpRequest("+1", "482913"))

	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "InvalidParameter: Invalid parameter: PhoneNumber", string(res.Body))
}

func TestSend_TransportFailure(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: no such host"))

	res, err := NewSenderWithClient(pub).Send(context.Background(), otpRequest("+15551234567", "482913"))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrDispatchFailed))
	assert.ErrorContains(t, err, "no such host")
}

func TestSend_SendErrorWithoutResponseIsAFailure(t *testing.T) {
	pub := &mockPublisher{}
	wrapped := &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{}},
			Err:      &smithyhttp.RequestSendError{Err: errors.New("Client.Timeout exceeded while awaiting headers")},
		},
	}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("operation error SNS: Publish, %w", wrapped))

	res, err := NewSenderWithClient(pub).Send(context.Background(), otpRequest("+15551234567", "482913"))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrDispatchFailed))
	assert.ErrorContains(t, err, "Client.Timeout exceeded")
}

func TestSend_MissingCode(t *testing.T) {
	pub := &mockPublisher{}

	_, err := NewSenderWithClient(pub).Send(context.Background(), &domain.DispatchRequest{To: "+15551234567"})

	assert.True(t, errors.Is(err, domain.ErrDispatchFailed))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestNewSender_PublishBoundedByConfiguredTimeout(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	sender, err := NewSender(context.Background(), &config.Config{
		SNSRegion:          "us-east-1",
		AWSEndpointURL:     srv.URL,
		AWSAccessKeyID:     "test",
		AWSSecretKey:       "test",
		HTTPTimeoutSeconds: 1,
	})
	require.NoError(t, err)

	start := time.Now()
	res, err := sender.Send(context.Background(), otpRequest("+15551234567", "482913"))

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, domain.ErrDispatchFailed))
	assert.Less(t, time.Since(start), 5*time.Second)
}
