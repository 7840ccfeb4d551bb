package notify

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"carcare/internal/models"
)

const dateLayout = "Mon, 02 Jan 2006 15:04 MST"

const confirmationText = `Booking Confirmed!

Dear {{.Name}},

Thank you for choosing {{.Brand}}! Your booking has been received and is currently {{.Status}}.

Booking ID: {{.ShortID}}
Service: {{.Service}}
Vehicle Type: {{.VehicleType}}
Date & Time: {{.Date}}
Date Created: {{.Created}}
{{if .Message}}
Customer Message: {{.Message}}
{{end}}
We will contact you shortly to confirm the final appointment slot. If you have any questions, reply to this email.

{{.Brand}}
`

const confirmationHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 30px;">
    <h2 style="color: #007bff; margin-top: 0;">Booking Confirmed!</h2>
    <p>Dear <strong>{{.Name}}</strong>,</p>
    <p>Thank you for choosing {{.Brand}}! Your booking has been received and is currently <strong>{{.Status}}</strong>.</p>
    <table width="100%" cellpadding="10" style="border: 1px solid #eee;">
      <tr style="background-color: #f9f9f9;"><td><b>Booking ID:</b></td><td align="right"><b>{{.ShortID}}</b></td></tr>
      <tr><td><b>Service:</b></td><td align="right">{{.Service}}</td></tr>
      <tr style="background-color: #f9f9f9;"><td><b>Vehicle Type:</b></td><td align="right">{{.VehicleType}}</td></tr>
      <tr><td><b>Date &amp; Time:</b></td><td align="right">{{.Date}}</td></tr>
      <tr style="background-color: #f9f9f9;"><td><b>Date Created:</b></td><td align="right">{{.Created}}</td></tr>
    </table>
    {{if .Message}}<div style="margin-top: 20px; padding: 10px; border-left: 3px solid #007bff; background-color: #e9f5ff;">
      <p style="margin: 0; font-style: italic;"><b>Customer Message:</b> {{.Message}}</p>
    </div>{{end}}
    <p style="margin-top: 25px;">We will contact you shortly to confirm the final appointment slot. If you have any questions, reply to this email.</p>
    <p style="color: #999; font-size: 12px;">{{.Brand}}</p>
  </div>
</body>
</html>
`

var (
	confirmationTextTmpl = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(confirmationText))
	confirmationHTMLTmpl = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(confirmationHTML))
)

type confirmationData struct {
	Brand       string
	Name        string
	ShortID     string
	Status      string
	Service     string
	VehicleType string
	Date        string
	Created     string
	Message     string
}

// Renderer turns bookings into email messages.
type Renderer struct {
	Brand string
}

func NewRenderer(brand string) *Renderer {
	if brand == "" {
		brand = "Car Care"
	}
	return &Renderer{Brand: brand}
}

// BookingConfirmation renders the confirmation for a booking loaded with its
// User and Service. HTML fields are escaped by html/template.
func (r *Renderer) BookingConfirmation(b *models.Booking) (Message, error) {
	data := confirmationData{
		Brand:       r.Brand,
		Name:        "customer",
		ShortID:     b.ShortID(),
		Status:      strings.ToUpper(string(b.Status)),
		Service:     "N/A",
		VehicleType: "N/A",
		Date:        b.Date.UTC().Format(dateLayout),
		Created:     b.CreatedAt.UTC().Format("2006-01-02"),
		Message:     b.Message,
	}
	var to string
	if b.User != nil {
		data.Name = b.User.Name
		to = b.User.Email
	}
	if b.Service != nil {
		data.Service = b.Service.Title
	}
	if b.VehicleType != "" {
		data.VehicleType = b.VehicleType
	}

	var text, html bytes.Buffer
	if err := confirmationTextTmpl.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := confirmationHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: "Booking Confirmed! (ID: " + data.ShortID + ")",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
