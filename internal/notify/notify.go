// Package notify tells the couple about new RSVPs.
package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v3"

	"github.com/AlexTLDR/wedding/internal/models"
)

type Notifier interface {
	RSVPReceived(ctx context.Context, resp models.RSVPResponse) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) RSVPReceived(context.Context, models.RSVPResponse) error { return nil }

type resendNotifier struct {
	client   *resend.Client
	from     string
	to       []string
	adminURL string
}

// NewResendNotifier sends an e-mail per saved RSVP through the Resend API.
func NewResendNotifier(apiKey, from string, to []string, adminURL string) Notifier {
	return &resendNotifier{
		client:   resend.NewClient(apiKey),
		from:     from,
		to:       to,
		adminURL: adminURL,
	}
}

func (n *resendNotifier) RSVPReceived(ctx context.Context, resp models.RSVPResponse) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: Subject(resp),
		Html:    Body(resp, n.adminURL),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send RSVP notification: %w", err)
	}
	return nil
}

func Subject(resp models.RSVPResponse) string {
	if resp.Attending {
		return fmt.Sprintf("RSVP: %s is coming (%d)", resp.GuestName, resp.NumberOfGuests)
	}
	return fmt.Sprintf("RSVP: %s can't make it", resp.GuestName)
}

// Body renders the notification e-mail. Guest supplied text is escaped.
func Body(resp models.RSVPResponse, adminURL string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"></head><body style="font-family:Arial,Helvetica,sans-serif;">`)
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(resp.GuestName))

	if resp.Attending {
		fmt.Fprintf(&b, "<p>Attending with a party of %d.</p>", resp.NumberOfGuests)
		if len(resp.MealChoices) > 0 {
			b.WriteString("<ul>")
			for _, m := range resp.MealChoices {
				name := m.GuestName
				if name == "" {
					name = fmt.Sprintf("Guest %d", m.GuestNumber)
				}
				fmt.Fprintf(&b, "<li>%s: %s</li>", html.EscapeString(name), html.EscapeString(string(m.Meal)))
			}
			b.WriteString("</ul>")
		}
	} else {
		b.WriteString("<p>Not attending.</p>")
	}

	if resp.SpecialRequests != "" {
		fmt.Fprintf(&b, "<p><strong>Special requests:</strong> %s</p>", html.EscapeString(resp.SpecialRequests))
	}
	fmt.Fprintf(&b, `<p style="color:#64748b;font-size:13px;">Submitted %s. <a href="%s">Open the dashboard</a></p>`,
		resp.SubmittedAt.Format("Jan 2, 2006 15:04 MST"), html.EscapeString(adminURL))
	b.WriteString("</body></html>")
	return b.String()
}
