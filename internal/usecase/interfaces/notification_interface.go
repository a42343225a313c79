package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EmailMessage is one transactional email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// IEmailSender delivers transactional email.
type IEmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// TMSProjectRequest is the payload for creating a project in the translation
// management system.
type TMSProjectRequest struct {
	Name           string
	ClientName     string
	ClientEmail    string
	SourceLanguage string
	TargetLanguage string
	WordCount      int
	Urgency        string
	Deadline       time.Time
	Price          decimal.Decimal
}

// ITMSClient creates projects in the translation management system.
type ITMSClient interface {
	CreateProject(ctx context.Context, req TMSProjectRequest) (projectID string, err error)
}
