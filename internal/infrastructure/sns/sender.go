package sns

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/otp-dispatch/internal/config"
	"github.com/otp-dispatch/internal/domain"
)

// Publisher is the part of the SNS client the sender uses.
type Publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Sender delivers the OTP of a dispatch request as a plain SMS via AWS SNS.
type Sender struct {
	client Publisher
}

func NewSender(ctx context.Context, cfg *config.Config) (*Sender, error) {
	// One attempt bounded by HTTP_TIMEOUT_SECONDS, same as the WhatsApp client.
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SNSRegion),
		awsconfig.WithHTTPClient(awshttp.NewBuildableClient().WithTimeout(cfg.HTTPTimeout())),
		awsconfig.WithRetryMaxAttempts(1),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return NewSenderWithClient(sns.NewFromConfig(awsCfg, clientOpts...)), nil
}

func NewSenderWithClient(client Publisher) *Sender {
	return &Sender{client: client}
}

// Message is the SMS text for a code.
func Message(code string) string {
	return "Your verification code: " + code
}

// Send publishes one SMS. An SNS API rejection is reported as a result carrying
// the HTTP status and error text, the same way a provider rejection is.
func (s *Sender) Send(ctx context.Context, req *domain.DispatchRequest) (*domain.DispatchResult, error) {
	code := req.Code()
	if code == "" {
		return nil, fmt.Errorf("%w: request carries no code", domain.ErrDispatchFailed)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(req.To),
		Message:     aws.String(Message(code)),
	})
	if err != nil {
		// A send failure still arrives wrapped in a ResponseError, with status 0.
		var sendErr *smithyhttp.RequestSendError
		var respErr *awshttp.ResponseError
		if !errors.As(err, &sendErr) && errors.As(err, &respErr) && respErr.HTTPStatusCode() > 0 {
			return &domain.DispatchResult{
				StatusCode:    respErr.HTTPStatusCode(),
				Body:          []byte(respErr.Err.Error()),
				ProviderError: respErr.Err.Error(),
			}, nil
		}
		return nil, fmt.Errorf("%w: sns publish: %v", domain.ErrDispatchFailed, err)
	}

	return &domain.DispatchResult{
		StatusCode: http.StatusOK,
		MessageID:  aws.ToString(out.MessageId),
	}, nil
}
