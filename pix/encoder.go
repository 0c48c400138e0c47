// Package pix builds static BR Code payloads (EMV Merchant-Presented
// QR) for single-amount PIX transfers. It only encodes the string a
// banking app scans; it never talks to the PIX network.
package pix

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	gui = "br.gov.bcb.pix"

	maxReceiverNameLen = 25
	maxCityLen         = 15
)

var (
	// ErrInvalidAmount flags amounts that can never appear in a
	// payload: negative, NaN or infinite.
	ErrInvalidAmount = errors.New("pix: invalid amount")

	// ErrFieldTooLong means a TLV value exceeded 99 characters. The
	// truncation rules make this unreachable for sanitized fields, so
	// hitting it is a precondition violation upstream.
	ErrFieldTooLong = errors.New("pix: field value exceeds 99 characters")
)

// Encode produces the BR Code copy-paste/QR string for a fixed-amount
// PIX transfer. It returns "" (and no error) when any of key,
// receiverName or city is empty: PIX is not configured for the game
// and the caller must not render a code.
func Encode(key, receiverName, city string, amount float64) (string, error) {
	if key == "" || receiverName == "" || city == "" {
		return "", nil
	}
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	// 77 = 99 minus the encoded GUI pair and the key pair's own header.
	if len(key) > 77 {
		return "", fmt.Errorf("%w: pix key", ErrFieldTooLong)
	}

	name := truncate(sanitizeField(receiverName), maxReceiverNameLen)
	place := truncate(sanitizeField(city), maxCityLen)

	var b strings.Builder
	fields := []struct {
		tag   string
		value string
	}{
		{"00", "01"},                        // payload format indicator
		{"01", "12"},                        // point of initiation: static, single use amount
		{"26", nested("00", gui, "01", key)}, // merchant account info: GUI + raw pix key
		{"52", "0000"},                      // merchant category code, unused
		{"53", "986"},                       // currency BRL
		{"54", formatAmount(amount)},
		{"58", "BR"},
		{"59", name},
		{"60", place},
		{"62", nested("05", "***")}, // additional data: txid wildcard
	}
	for _, f := range fields {
		enc, err := field(f.tag, f.value)
		if err != nil {
			return "", err
		}
		b.WriteString(enc)
	}

	// CRC tag+length go into the checksum input.
	b.WriteString("6304")
	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16(payload)), nil
}

// Verify recomputes the CRC of a full BR Code string and checks it
// against the trailing four hex digits.
func Verify(payload string) bool {
	if len(payload) < 8 {
		return false
	}
	body := payload[:len(payload)-4]
	if !strings.HasSuffix(body, "6304") {
		return false
	}
	return fmt.Sprintf("%04X", crc16(body)) == payload[len(payload)-4:]
}

// field renders one TLV entry: 2-digit tag, 2-digit zero-padded
// length, value. Values beyond 99 chars cannot be represented.
func field(tag, value string) (string, error) {
	if len(value) > 99 {
		return "", fmt.Errorf("%w: tag %s", ErrFieldTooLong, tag)
	}
	return fmt.Sprintf("%s%02d%s", tag, len(value), value), nil
}

// nested encodes alternating tag/value pairs as an inner TLV sequence,
// used as the value of an outer template field (tags 26 and 62).
func nested(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		enc, err := field(pairs[i], pairs[i+1])
		if err != nil {
			// Inner values are either constants or the pix key, which
			// is capped well below 99 chars by every key format.
			panic(err)
		}
		b.WriteString(enc)
	}
	return b.String()
}

// formatAmount renders the amount with exactly two decimal digits and
// a dot separator, locale independent.
func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
)

// sanitizeField decomposes accents, drops the combining marks, removes
// everything outside [A-Za-z0-9 ] and upper-cases the rest. Receiver
// name and city must pass through here before truncation.
func sanitizeField(s string) string {
	decomposed, _, err := transform.String(stripMarks, s)
	if err != nil {
		decomposed = s
	}
	var b strings.Builder
	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.ToUpper(b.String())
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// crc16 is CRC16/CCITT-FALSE: init 0xFFFF, polynomial 0x1021, MSB
// first, no final XOR. Inputs are restricted to the sanitized ASCII
// character set, so one byte per character holds.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
