package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"legacy_portal/internal/domain/entities"
)

// EmailData is what every email template can reference.
type EmailData struct {
	Order         entities.Order
	RecipientName string
	AcceptURL     string
	DeclineURL    string
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

const layout = `<!DOCTYPE html><html><body style="font-family:sans-serif">
<p>Hello{{if .RecipientName}} {{.RecipientName}}{{end}},</p>
{{template "content" .}}
<p style="color:#888">Order {{.Order.Reference}}</p>
</body></html>`

func mustTemplate(content string) *template.Template {
	t := template.Must(template.New("layout").Parse(layout))
	return template.Must(t.New("content").Parse(content))
}

var emailTemplates = map[entities.Effect]emailTemplate{
	entities.EffectEmailOrderConfirmation: {
		subject: "We received your order %s",
		body: mustTemplate(`<p>Thank you for your order. We will translate your {{.Order.TranslateFrom}} document into {{.Order.TranslateTo}}.</p>
<p>Total: {{.Order.TotalPrice.StringFixed 2}}{{if .Order.Deadline}}<br>Expected delivery: {{.Order.Deadline.Format "2006-01-02"}}{{end}}</p>`),
	},
	entities.EffectEmailAdminNewOrder: {
		subject: "New order %s",
		body: mustTemplate(`<p>A new {{.Order.ServiceType}} order arrived from {{.Order.ClientName}} &lt;{{.Order.ClientEmail}}&gt;.</p>
<p>{{.Order.TranslateFrom}} to {{.Order.TranslateTo}}, {{.Order.WordCount}} words, urgency {{.Order.Urgency}}.</p>`),
	},
	entities.EffectEmailTranslationStarted: {
		subject: "Translation of order %s has started",
		body:    mustTemplate(`<p>Our translators are now working on your document.</p>`),
	},
	entities.EffectEmailReviewReady: {
		subject: "Order %s is ready for review",
		body:    mustTemplate(`<p>The translation was submitted and is waiting for review.</p>`),
	},
	entities.EffectEmailReworkRequested: {
		subject: "Changes requested on order %s",
		body:    mustTemplate(`<p>The reviewer sent the translation back for changes.</p>`),
	},
	entities.EffectEmailReadyForDelivery: {
		subject: "Order %s is ready for delivery",
		body:    mustTemplate(`<p>The translation passed review and can be delivered to the client.</p>`),
	},
	entities.EffectEmailOrderDelivered: {
		subject: "Your translation %s was delivered",
		body:    mustTemplate(`<p>Your translated document has been delivered. Thank you for choosing us.</p>`),
	},
	entities.EffectEmailPaymentReceipt: {
		subject: "Payment received for order %s",
		body:    mustTemplate(`<p>We received your payment of {{.Order.TotalPrice.StringFixed 2}}.</p>`),
	},
	entities.EffectEmailPaymentOverdue: {
		subject: "Payment overdue for order %s",
		body: mustTemplate(`<p>We have not yet received payment of {{.Order.TotalPrice.StringFixed 2}}{{if .Order.DueDate}}, due on {{.Order.DueDate.Format "2006-01-02"}}{{end}}.</p>
<p>Please settle it at your earliest convenience.</p>`),
	},
	entities.EffectEmailPMAssigned: {
		subject: "You are managing order %s",
		body:    mustTemplate(`<p>You were assigned as project manager for this order ({{.Order.TranslateFrom}} to {{.Order.TranslateTo}}, {{.Order.WordCount}} words).</p>`),
	},
	entities.EffectEmailTranslatorAssignment: {
		subject: "New translation assignment %s",
		body: mustTemplate(`<p>You have been offered a translation: {{.Order.TranslateFrom}} to {{.Order.TranslateTo}}, {{.Order.WordCount}} words{{if .Order.Deadline}}, due {{.Order.Deadline.Format "2006-01-02"}}{{end}}.</p>
<p><a href="{{.AcceptURL}}">Accept</a> | <a href="{{.DeclineURL}}">Decline</a></p>`),
	},
	entities.EffectEmailAssignmentAccepted: {
		subject: "Assignment accepted for order %s",
		body:    mustTemplate(`<p>{{.Order.Translator.Name}} accepted the assignment.</p>`),
	},
	entities.EffectEmailAssignmentDeclined: {
		subject: "Assignment declined for order %s",
		body:    mustTemplate(`<p>{{.Order.Translator.Name}} declined the assignment. Please assign another translator.</p>`),
	},
}

// RenderEmail builds the subject and HTML body of an email effect.
func RenderEmail(effect entities.Effect, data EmailData) (string, string, error) {
	tpl, ok := emailTemplates[effect]
	if !ok {
		return "", "", fmt.Errorf("no email template for effect %q", effect)
	}
	var buf bytes.Buffer
	if err := tpl.body.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", "", err
	}
	return fmt.Sprintf(tpl.subject, data.Order.Reference), buf.String(), nil
}
