package domain

import "net/http"

// Template message constants for the WhatsApp Cloud API.
const (
	MessagingProductWhatsApp = "whatsapp"
	MessageTypeTemplate      = "template"
	ComponentTypeBody        = "body"
	ComponentTypeButton      = "button"
	ButtonSubTypeURL         = "url"
	ParameterTypeText        = "text"
	DefaultLanguageCode      = "en_US"
)

// DispatchRequest is the templated message posted to the provider.
// Field order matches the provider's documented payload.
type DispatchRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         Template `json:"template"`
}

// Template names a pre-approved message template and its substitutions.
type Template struct {
	Name       string      `json:"name"`
	Language   Language    `json:"language"`
	Components []Component `json:"components"`
}

type Language struct {
	Code string `json:"code"`
}

// Component is one substitution block of a template: the body, or a button.
type Component struct {
	Type       string      `json:"type"`
	SubType    string      `json:"sub_type,omitempty"`
	Index      string      `json:"index,omitempty"`
	Parameters []Parameter `json:"parameters"`
}

type Parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Code returns the OTP carried in the body component, or "" if there is none.
func (r *DispatchRequest) Code() string {
	for _, c := range r.Template.Components {
		if c.Type == ComponentTypeBody && len(c.Parameters) > 0 {
			return c.Parameters[0].Text
		}
	}
	return ""
}

// DispatchResult is what the provider answered. A result only exists when the
// provider responded; a call that never completed is reported as an error instead.
type DispatchResult struct {
	StatusCode int
	Body       []byte
	// MessageID is the provider's id for the accepted message, when it sent one.
	MessageID string
	// ProviderError is the provider's own error description on rejection.
	ProviderError string
}

// OK reports whether the provider accepted the message. Status 200 is the only
// success signal; no other field is consulted.
func (r *DispatchResult) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}
