// File: internal/upi/link.go
package upi

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"upi-subscription-api/internal/domain"
)

// escape percent-encodes a query value with spaces as %20, never +. Some
// UPI apps render a literal + in pn=/tn=.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildLink renders a upi://pay deep link. Pure: deterministic given its
// inputs; the timestamp feeds the tr= reference number. The payer name and
// note are URL-encoded, everything else is passed through as validated
// upstream (the builder does not revalidate the amount).
func BuildLink(payeeHandle, payerName, amount, note string, now time.Time) string {
	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(payeeHandle)
	b.WriteString("&pn=")
	b.WriteString(escape(payerName))
	b.WriteString("&am=")
	b.WriteString(amount)
	b.WriteString("&cu=INR&tn=")
	b.WriteString(escape(note))
	b.WriteString("&mc=0000&tr=")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	return b.String()
}

// ValidateAddress accepts payee handles of the identifier@provider form.
// Matches the loose check the handle-change endpoint has always applied.
func ValidateAddress(handle string) error {
	if handle == "" || !strings.Contains(handle, "@") {
		return domain.ErrInvalidUPIAddress
	}
	return nil
}
