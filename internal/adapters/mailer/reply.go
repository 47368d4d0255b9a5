package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"yacht_automate/internal/domain"
	"yacht_automate/internal/quote"
)

// MaxReplyYachts caps how many options go into a lead reply.
const MaxReplyYachts = 4

type replyCard struct {
	Yacht                 domain.Yacht
	Total, Base, APA, VAT string
}

type replyData struct {
	Greeting string
	Area     string
	Guests   int
	Cards    []replyCard
}

var replyTmpl = template.Must(template.New("reply").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Your Charter Options</title></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<h1 style="color: #2c5aa0; border-bottom: 2px solid #2c5aa0; padding-bottom: 10px;">Your Charter Options</h1>
<p>{{.Greeting}},</p>
<p>Thank you for your interest in chartering a yacht in the <strong>{{.Area}}</strong> for <strong>{{.Guests}} guests</strong>.</p>
<p>Based on your requirements, we've selected the following yachts that would be perfect for your charter:</p>
{{range .Cards}}<div style="border: 1px solid #ddd; border-radius: 8px; padding: 20px; margin: 15px 0; background: #f9f9f9;">
<h3 style="margin: 0 0 10px 0; color: #2c5aa0;">{{.Yacht.Name}}</h3>
<p style="margin: 5px 0; color: #666;"><strong>Builder:</strong> {{.Yacht.Builder}} | <strong>Length:</strong> {{.Yacht.LengthM}}m | <strong>Guests:</strong> {{.Yacht.Guests}} | <strong>Cabins:</strong> {{.Yacht.Cabins}}</p>
<p style="margin: 5px 0; color: #666;"><strong>Type:</strong> {{.Yacht.Type}} | <strong>Area:</strong> {{.Yacht.Region}}</p>
<p style="margin: 10px 0; font-size: 18px; color: #2c5aa0;"><strong>Weekly Charter: {{.Total}}</strong></p>
<p style="margin: 5px 0; font-size: 12px; color: #888;">Includes base rate {{.Base}}, APA {{.APA}}, and VAT {{.VAT}}</p>
</div>
{{end}}<div style="background: #e8f4f8; border-left: 4px solid #2c5aa0; padding: 15px; margin: 20px 0;">
<h3 style="margin: 0 0 10px 0; color: #2c5aa0;">Next Steps</h3>
<p style="margin: 5px 0;">Our charter specialists are standing by to help you finalize your perfect yacht charter.</p>
</div>
<p style="margin-top: 30px; font-size: 12px; color: #666; border-top: 1px solid #ddd; padding-top: 15px;"><strong>Important:</strong> All prices are indicative and subject to availability. APA (Advance Provisioning Allowance) covers fuel, food, beverages, and port fees. VAT rates may vary by jurisdiction.</p>
<p style="font-size: 12px; color: #666;">Best regards,<br>The Yacht Automate Team</p>
</body>
</html>
`))

// ReplySubject is the subject line for a lead reply.
func ReplySubject(area string, guests int) string {
	return fmt.Sprintf("Your charter options — %s — %d guests", area, guests)
}

// LeadReply builds the reply e-mail for a lead from its ranked yachts.
// Only the first MaxReplyYachts are included, each with a one-week quote.
// area is free text from the client and is flattened to one line.
func LeadReply(l domain.Lead, area string, yachts []domain.Yacht) (domain.EmailJob, error) {
	if len(yachts) > MaxReplyYachts {
		yachts = yachts[:MaxReplyYachts]
	}
	area = headerText(area)
	d := replyData{Greeting: "Dear Charter Guest", Area: area, Guests: l.PartySize}
	if l.Name != nil && *l.Name != "" {
		d.Greeting = "Dear " + *l.Name
	}
	priced, err := quote.CalculateMany(yachts, quote.DefaultWeeks, quote.DefaultExtras)
	if err != nil {
		return domain.EmailJob{}, err
	}
	for _, p := range priced {
		b := p.Quote
		d.Cards = append(d.Cards, replyCard{
			Yacht: p.Yacht,
			Total: quote.Money(b.Total, b.Currency),
			Base:  quote.Money(b.BasePrice, b.Currency),
			APA:   quote.Money(b.APA, b.Currency),
			VAT:   quote.Money(b.VAT, b.Currency),
		})
	}

	var buf bytes.Buffer
	if err := replyTmpl.Execute(&buf, d); err != nil {
		return domain.EmailJob{}, err
	}
	return domain.EmailJob{
		TenantID: l.TenantID,
		To:       l.Email,
		Subject:  ReplySubject(area, l.PartySize),
		Body:     buf.String(),
		LeadID:   l.ID,
	}, nil
}
