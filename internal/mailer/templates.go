package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"greenspark-backend/internal/models"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h2>Hello {{.OrganizerName}},</h2>
<p>Thank you for creating a campaign on GreenSpark.</p>
<p><strong>Title:</strong> {{.Title}}</p>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Location:</strong> {{.Location}}</p>
<p><strong>Description:</strong> {{.Description}}</p>
<br/>
<p>We appreciate your effort towards a greener planet 🌱</p>
<p>- GreenSpark Team</p>
`))

// CampaignConfirmation builds the thank-you email sent to an organizer.
// Submitted values are HTML escaped.
func CampaignConfirmation(ev models.CampaignCreatedEvent) (Message, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, ev); err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	subject := "Thanks for creating a campaign: " + strings.ReplaceAll(ev.Title, "\n", " ")

	text := fmt.Sprintf("Hello %s,\n\nThank you for creating a campaign on GreenSpark.\n\nTitle: %s\nDate: %s\nLocation: %s\n\n- GreenSpark Team\n",
		ev.OrganizerName, ev.Title, ev.Date, ev.Location)

	return Message{
		To:      ev.OrganizerEmail,
		ToName:  ev.OrganizerName,
		Subject: subject,
		HTML:    buf.String(),
		Text:    text,
	}, nil
}
