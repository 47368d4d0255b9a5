package quote

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"yacht_automate/internal/domain"
)

var printer = message.NewPrinter(language.English)

// Money renders a whole-unit amount as "EUR 175,000". Unknown codes are kept verbatim.
func Money(amount int64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if u, err := currency.ParseISO(code); err == nil {
		code = u.String()
	}
	return printer.Sprintf("%s %d", code, amount)
}

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━"

// FormatBreakdown returns the plain-text quote block sent to clients.
func FormatBreakdown(b domain.QuoteBreakdown) string {
	var sb strings.Builder
	sb.WriteString("Charter Quote Breakdown:\n")
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "Base Charter Fee: %s\n", Money(b.BasePrice, b.Currency))
	fmt.Fprintf(&sb, "APA (25%%):        %s\n", Money(b.APA, b.Currency))
	fmt.Fprintf(&sb, "VAT:              %s\n", Money(b.VAT, b.Currency))
	fmt.Fprintf(&sb, "Extras:           %s\n", Money(b.Extras, b.Currency))
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "TOTAL:            %s\n\n", Money(b.Total, b.Currency))
	sb.WriteString("* APA covers fuel, food, beverages, port fees, and other operational expenses\n")
	sb.WriteString("* VAT rates vary by jurisdiction and yacht flag\n")
	sb.WriteString("* All prices are indicative and subject to final confirmation")
	return sb.String()
}
