package dto

// GenerateEmailRequest body para POST /api/mail/generate y /api/mail/send.
type GenerateEmailRequest struct {
	TemplateID string   `json:"template_id"`
	ResIDs     []string `json:"res_ids"`
}

// EmailAttachment adjunto con contenido en base64.
type EmailAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

// EmailValues valores de un correo generado para un registro.
type EmailValues struct {
	ResID       string            `json:"res_id"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	EmailFrom   string            `json:"email_from,omitempty"`
	EmailTo     string            `json:"email_to,omitempty"`
	Attachments []EmailAttachment `json:"attachments"`
}

// SendEmailResponse resultado del envío.
type SendEmailResponse struct {
	Sent   int      `json:"sent"`
	ResIDs []string `json:"res_ids"`
}
