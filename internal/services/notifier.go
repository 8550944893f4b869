package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/yungbote/taiyaki-backend/internal/catalog"
	"github.com/yungbote/taiyaki-backend/internal/data/repos"
	types "github.com/yungbote/taiyaki-backend/internal/domain"
	"github.com/yungbote/taiyaki-backend/internal/platform/logger"
	"github.com/yungbote/taiyaki-backend/internal/platform/sendgrid"
)

type NotifierService interface {
	// SendReadyEmail mails the checkout link and completes the design.
	SendReadyEmail(ctx context.Context, ref DesignRef) (*types.Design, error)
}

type notifierService struct {
	log        *logger.Logger
	mailer     Mailer
	cat        *catalog.Catalog
	designRepo repos.DesignRepo
	status     StatusPublisher
}

func NewNotifierService(log *logger.Logger, mailer Mailer, cat *catalog.Catalog, designRepo repos.DesignRepo, status StatusPublisher) NotifierService {
	return &notifierService{
		log:        log.With("service", "NotifierService"),
		mailer:     mailer,
		cat:        cat,
		designRepo: designRepo,
		status:     status,
	}
}

func (s *notifierService) SendReadyEmail(ctx context.Context, ref DesignRef) (*types.Design, error) {
	d, err := loadDesign(ctx, s.designRepo, ref)
	if err != nil {
		return nil, err
	}
	if err := requireStatusFor(d, types.DesignStatusCompleted); err != nil {
		return nil, err
	}

	msg, err := RenderReadyEmail(s.cat, d)
	if err != nil {
		return nil, err
	}
	res, err := s.mailer.Send(ctx, sendgrid.SendEmailRequest{
		To:         []sendgrid.EmailAddress{{Email: d.Email}},
		Subject:    msg.Subject,
		Text:       msg.Text,
		HTML:       msg.HTML,
		Categories: []string{"charm-ready"},
		CustomArgs: map[string]string{"design_id": d.DesignID.String()},
	})
	if err != nil {
		s.log.Error("ready email failed", "design_id", d.DesignID, "email", d.Email, "error", err)
		return nil, upstream("SendGrid", err)
	}

	now := time.Now().UTC()
	updated, err := transition(ctx, s.designRepo, d, types.DesignStatusCompleted, map[string]interface{}{
		"email_sent":       true,
		"email_message_id": res.MessageID,
		"email_sent_at":    now,
		"completed_at":     now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ready email sent", "design_id", d.DesignID, "message_id", res.MessageID)
	publishStatus(ctx, s.status, s.log, updated, "")
	return updated, nil
}

type EmailMessage struct {
	Subject string
	HTML    string
	Text    string
}

type emailView struct {
	SubjectName string
	RenderURL   string
	CheckoutURL string
	ProductURL  string
	Material    string
	DesignID    string
}

// RenderReadyEmail builds the self-contained HTML body and its plain-text
// fallback. All styling is inline.
func RenderReadyEmail(cat *catalog.Catalog, d *types.Design) (*EmailMessage, error) {
	v := emailView{
		SubjectName: strings.TrimSpace(d.SubjectName),
		RenderURL:   d.RenderURL,
		CheckoutURL: d.CheckoutURL,
		ProductURL:  d.ProductURL,
		Material:    cat.MaterialPhrase(d.Quiz().Material),
		DesignID:    d.DesignID.String(),
	}
	var h, t bytes.Buffer
	if err := readyHTML.Execute(&h, v); err != nil {
		return nil, fmt.Errorf("render email html: %w", err)
	}
	if err := readyText.Execute(&t, v); err != nil {
		return nil, fmt.Errorf("render email text: %w", err)
	}
	return &EmailMessage{
		Subject: "Your charm is ready – " + v.SubjectName,
		HTML:    h.String(),
		Text:    t.String(),
	}, nil
}

var readyHTML = template.Must(template.New("ready.html").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f7f4ef;font-family:Georgia,'Times New Roman',serif;color:#2b2b2b;">
  <table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#f7f4ef;padding:32px 0;">
    <tr>
      <td align="center">
        <table role="presentation" width="600" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:12px;padding:40px;">
          <tr>
            <td style="text-align:center;">
              <h1 style="margin:0 0 12px 0;font-size:28px;font-weight:normal;color:#2b2b2b;">{{.SubjectName}}'s charm is ready</h1>
              <p style="margin:0 0 24px 0;font-size:16px;line-height:1.5;color:#5a5a5a;">We turned your answers into a one-of-a-kind design in {{.Material}}.</p>
              {{if .RenderURL}}<img src="{{.RenderURL}}" alt="Custom charm for {{.SubjectName}}" width="400" style="display:block;margin:0 auto 28px auto;max-width:100%;border-radius:8px;">{{end}}
              <a href="{{.CheckoutURL}}" style="display:inline-block;padding:14px 32px;background-color:#2b2b2b;color:#ffffff;text-decoration:none;border-radius:6px;font-size:16px;">Order your charm</a>
              {{if .ProductURL}}<p style="margin:24px 0 0 0;font-size:14px;color:#8a8a8a;">Or <a href="{{.ProductURL}}" style="color:#8a6d3b;">view the product page</a>.</p>{{end}}
              <p style="margin:32px 0 0 0;font-size:12px;color:#b0b0b0;">Design {{.DesignID}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))

var readyText = texttemplate.Must(texttemplate.New("ready.txt").Parse(`{{.SubjectName}}'s charm is ready!

We turned your answers into a one-of-a-kind design in {{.Material}}.
{{if .RenderURL}}
See your design: {{.RenderURL}}
{{end}}
Order your charm: {{.CheckoutURL}}
{{if .ProductURL}}Product page: {{.ProductURL}}
{{end}}
Design {{.DesignID}}
`))
