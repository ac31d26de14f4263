package emailjs

import "fmt"

// SendRequest is the body of POST /api/v1.0/email/send.
type SendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
	TemplateParams map[string]string `json:"template_params"`
}

// StatusError carries EmailJS's plain-text failure answer.
type StatusError struct {
	Status int
	Text   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("emailjs error: status=%d, text=%s", e.Status, e.Text)
}
