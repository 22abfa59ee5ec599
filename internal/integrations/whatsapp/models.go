package whatsapp

// TemplateMessage сообщение по шаблону WhatsApp Cloud API
type TemplateMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         TemplateBody `json:"template"`
}

// TemplateBody шаблон и его параметры
type TemplateBody struct {
	Name       string              `json:"name"`
	Language   Language            `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

// Language код языка шаблона
type Language struct {
	Code string `json:"code"`
}

// TemplateComponent компонент шаблона (body)
type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters"`
}

// TemplateParameter текстовый параметр шаблона
type TemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// SendResponse ответ Cloud API на отправку сообщения
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Messages         []struct {
		ID string `json:"id"`
	} `json:"messages"`
}
