package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches the Brevo API v3 transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender `json:"sender"`
	To          []BrevoTo   `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// BookingRequest describes a new booking request for the owner email.
type BookingRequest struct {
	OwnerEmail   string
	OwnerName    string
	TenantName   string
	ListingTitle string
	Message      string
}

// BookingDecision describes the owner's answer for the tenant email.
type BookingDecision struct {
	TenantEmail  string
	TenantName   string
	ListingTitle string
	Status       string // approved or rejected
}

// Sender sends booking emails. A nil Sender means emails are disabled.
type Sender interface {
	SendBookingRequested(ctx context.Context, r BookingRequest) error
	SendBookingDecision(ctx context.Context, d BookingDecision) error
}

// BrevoClient sends emails via the Brevo (Sendinblue) API.
type BrevoClient struct {
	APIKey      string
	MailFrom    string
	FrontendURL string
	Endpoint    string // defaults to the Brevo API
	Client      *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@roomrento.app"
}

func (c *BrevoClient) link(path string) string {
	base := strings.TrimRight(c.FrontendURL, "/")
	if base == "" {
		base = "https://roomrento.app"
	}
	return base + path
}

func (c *BrevoClient) send(ctx context.Context, toEmail, toName, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "RoomRento"},
		To:          []BrevoTo{{Email: toEmail, Name: toName}},
		Subject:     subject,
		HTMLContent: html,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = brevoAPI
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendBookingRequested tells the owner a tenant asked for their listing.
func (c *BrevoClient) SendBookingRequested(ctx context.Context, r BookingRequest) error {
	name := r.OwnerName
	if name == "" {
		name = "there"
	}
	content := fmt.Sprintf(`
    <h1>New booking request</h1>
    <p>Hi %s,</p>
    <p><strong>%s</strong> would like to book <strong>%s</strong>.</p>
    %s
    <center><a href="%s" class="rr-button">Review request</a></center>
`, EscapeHTML(name), EscapeHTML(r.TenantName), EscapeHTML(r.ListingTitle), quote(r.Message), c.link("/bookings/incoming"))
	return c.send(ctx, r.OwnerEmail, r.OwnerName, "New booking request for "+r.ListingTitle, EmailLayout(content))
}

// SendBookingDecision tells the tenant whether the owner approved.
func (c *BrevoClient) SendBookingDecision(ctx context.Context, d BookingDecision) error {
	name := d.TenantName
	if name == "" {
		name = "there"
	}
	verb := "declined"
	if d.Status == "approved" {
		verb = "approved"
	}
	content := fmt.Sprintf(`
    <h1>Your request was %s</h1>
    <p>Hi %s,</p>
    <p>The owner of <strong>%s</strong> has %s your booking request.</p>
    <center><a href="%s" class="rr-button">View my bookings</a></center>
`, verb, EscapeHTML(name), EscapeHTML(d.ListingTitle), verb, c.link("/bookings"))
	return c.send(ctx, d.TenantEmail, d.TenantName, "Booking "+verb+": "+d.ListingTitle, EmailLayout(content))
}

func quote(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return ""
	}
	return fmt.Sprintf(`<p style="border-left: 3px solid #E5E7EB; padding-left: 12px; color: #4B5563;">%s</p>`, EscapeHTML(msg))
}
