package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoicing/pkg/models"
)

var (
	monthlyNumberPattern = regexp.MustCompile(`^([^/]+)/(\d+)/(\d{2})/(\d{4})$`)
	yearlyNumberPattern  = regexp.MustCompile(`^([^/]+)/(\d+)/(\d{4})$`)
)

// periodToken is the trailing fragment shared by every number of the period
// containing now: "/MM/YYYY", or "/YYYY" when numbering resets yearly.
func periodToken(now time.Time, yearly bool) string {
	if yearly {
		return fmt.Sprintf("/%d", now.Year())
	}
	return fmt.Sprintf("/%02d/%d", int(now.Month()), now.Year())
}

func formatNumber(prefix string, seq int, now time.Time, yearly bool) string {
	if yearly {
		return fmt.Sprintf("%s/%03d/%d", prefix, seq, now.Year())
	}
	return fmt.Sprintf("%s/%03d/%02d/%d", prefix, seq, int(now.Month()), now.Year())
}

// parseSequence extracts the numeric sequence of an invoice number in the given
// numbering mode.
func parseSequence(number string, yearly bool) (int, error) {
	pattern := monthlyNumberPattern
	if yearly {
		pattern = yearlyNumberPattern
	}
	m := pattern.FindStringSubmatch(number)
	if m == nil {
		return 0, fmt.Errorf("invoice number %q does not match the numbering pattern", number)
	}
	return strconv.Atoi(m[2])
}

// GenerateNumber derives the next invoice number for the period containing now
// from the existing invoices. The next sequence follows the highest sequence
// issued in the period, whatever the invoice dates say. With no invoice in the
// period numbering restarts at 1. When the latest dated invoice of the period
// (ties go to the higher sequence) has a number that cannot be parsed, numbering
// also restarts at 1 and the parse problem is returned alongside the number.
//
// The scan is not safe against two callers generating at the same time.
func GenerateNumber(existing []*models.Invoice, prefix string, yearly bool, now time.Time) (string, error) {
	token := periodToken(now, yearly)

	var latest *models.Invoice
	latestSeq, highest := -1, 0
	for _, inv := range existing {
		if !strings.HasSuffix(inv.InvoiceNumber, token) {
			continue
		}
		// "FV/001/03/2025" ends in "/2025" but belongs to monthly numbering.
		if yearly && monthlyNumberPattern.MatchString(inv.InvoiceNumber) {
			continue
		}

		seq, err := parseSequence(inv.InvoiceNumber, yearly)
		if err != nil {
			seq = -1
		}
		if seq > highest {
			highest = seq
		}
		if latest == nil ||
			inv.InvoiceDate.After(latest.InvoiceDate) ||
			(inv.InvoiceDate.Equal(latest.InvoiceDate) && seq > latestSeq) {
			latest = inv
			latestSeq = seq
		}
	}

	if latest == nil {
		return formatNumber(prefix, 1, now, yearly), nil
	}
	if _, err := parseSequence(latest.InvoiceNumber, yearly); err != nil {
		return formatNumber(prefix, 1, now, yearly), err
	}
	return formatNumber(prefix, highest+1, now, yearly), nil
}
