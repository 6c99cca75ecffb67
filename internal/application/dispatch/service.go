package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/otp-dispatch/internal/domain"
	"github.com/otp-dispatch/internal/pkg/id"
	"github.com/otp-dispatch/internal/pkg/otp"
)

// Sender delivers one request to the messaging provider. A non-nil error means
// the call did not complete; any provider answer comes back as a result.
type Sender interface {
	Send(ctx context.Context, req *domain.DispatchRequest) (*domain.DispatchResult, error)
}

// Generator produces a fresh OTP. otp.Generate satisfies it.
type Generator func() (string, error)

// Input is what the caller chooses per run.
type Input struct {
	Recipient    string
	TemplateName string
	LanguageCode string
	// OnGenerated, when set, is called with the code and recipient once the
	// request is built and before the blocking send starts.
	OnGenerated func(code, recipient string)
}

// Outcome is a finished dispatch. Exactly one of Result and Err is set:
// Result when the provider answered, Err when the call never completed.
type Outcome struct {
	DispatchID string
	OTP        string
	Recipient  string
	Result     *domain.DispatchResult
	Err        error
}

// Delivered reports whether the provider accepted the message.
func (o *Outcome) Delivered() bool {
	return o.Err == nil && o.Result.OK()
}

type Service interface {
	Dispatch(ctx context.Context, in Input) (*Outcome, error)
}

type service struct {
	sender   Sender
	generate Generator
}

func NewService(sender Sender, generate Generator) Service {
	if generate == nil {
		generate = otp.Generate
	}
	return &service{sender: sender, generate: generate}
}

// Dispatch generates a code, builds the template request and sends it once.
// The returned error covers only failures before anything was sent; a failed
// send is reported in Outcome.Err.
func (s *service) Dispatch(ctx context.Context, in Input) (*Outcome, error) {
	out := &Outcome{DispatchID: id.New(), Recipient: in.Recipient}
	log := slog.With("dispatch_id", out.DispatchID, "recipient", in.Recipient)

	code, err := s.generate()
	if err != nil {
		return nil, err
	}
	out.OTP = code

	req, err := BuildRequest(code, in.Recipient, in.TemplateName, in.LanguageCode)
	if err != nil {
		return nil, err
	}

	if in.OnGenerated != nil {
		in.OnGenerated(code, in.Recipient)
	}

	start := time.Now()
	res, err := s.sender.Send(ctx, req)
	duration := time.Since(start)
	if err == nil && res == nil {
		err = fmt.Errorf("%w: empty response", domain.ErrDispatchFailed)
	}
	if err != nil {
		log.Error("dispatch did not complete", "duration", duration, "err", err)
		out.Err = err
		return out, nil
	}
	out.Result = res

	if res.OK() {
		log.Info("dispatch accepted", "status", res.StatusCode, "message_id", res.MessageID, "duration", duration)
	} else {
		log.Warn("dispatch rejected", "status", res.StatusCode, "provider_error", res.ProviderError, "duration", duration)
	}
	return out, nil
}

// BuildRequest assembles the template message for one OTP. The same code fills
// both the body substitution and the URL button substitution.
func BuildRequest(code, recipient, templateName, languageCode string) (*domain.DispatchRequest, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, fmt.Errorf("recipient required: %w", domain.ErrBadRequest)
	}
	if strings.TrimSpace(templateName) == "" {
		return nil, fmt.Errorf("template name required: %w", domain.ErrBadRequest)
	}
	if !otp.Valid(code) {
		return nil, fmt.Errorf("otp must be %d digits: %w", otp.Length, domain.ErrBadRequest)
	}
	if languageCode == "" {
		languageCode = domain.DefaultLanguageCode
	}

	return &domain.DispatchRequest{
		MessagingProduct: domain.MessagingProductWhatsApp,
		To:               recipient,
		Type:             domain.MessageTypeTemplate,
		Template: domain.Template{
			Name:     templateName,
			Language: domain.Language{Code: languageCode},
			Components: []domain.Component{
				{
					Type:       domain.ComponentTypeBody,
					Parameters: []domain.Parameter{{Type: domain.ParameterTypeText, Text: code}},
				},
				{
					Type:       domain.ComponentTypeButton,
					SubType:    domain.ButtonSubTypeURL,
					Index:      "0",
					Parameters: []domain.Parameter{{Type: domain.ParameterTypeText, Text: code}},
				},
			},
		},
	}, nil
}
