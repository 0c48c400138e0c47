package pix

import (
	"strings"
	"testing"
)

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode("test@example.com", "JOAO SILVA", "SAO PAULO", 25.00)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	b, err := Encode("test@example.com", "JOAO SILVA", "SAO PAULO", 25.00)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if a == "" || a != b {
		t.Fatalf("Encode() not deterministic: %q vs %q", a, b)
	}
}

func TestEncodeCRCRoundTrip(t *testing.T) {
	payload, err := Encode("test@example.com", "JOAO SILVA", "SAO PAULO", 25.00)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !Verify(payload) {
		t.Fatalf("Verify(Encode(...)) = false, payload %q", payload)
	}

	// Corrupting any byte must break the checksum.
	corrupted := "X" + payload[1:]
	if Verify(corrupted) {
		t.Fatalf("Verify() accepted corrupted payload")
	}
}

func TestEncodePayloadStructure(t *testing.T) {
	payload, err := Encode("11999998888", "Maria", "Recife", 12.5)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	for _, want := range []string{
		"000201",         // payload format indicator
		"010212",         // static point of initiation
		"br.gov.bcb.pix", // GUI inside tag 26
		"11999998888",    // raw key inside tag 26
		"52040000",       // merchant category code
		"5303986",        // BRL
		"540512.50",      // amount, two decimals
		"5802BR",
		"5905MARIA",
		"6006RECIFE",
		"62070503***", // txid wildcard
		"6304",
	} {
		if !strings.Contains(payload, want) {
			t.Errorf("payload missing %q: %s", want, payload)
		}
	}
	if !strings.HasPrefix(payload, "000201") {
		t.Errorf("payload must start with the format indicator: %s", payload)
	}
}

func TestEncodeNotConfigured(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		receiver string
		city     string
	}{
		{"no key", "", "JOAO", "SAO PAULO"},
		{"no receiver", "a@b.com", "", "SAO PAULO"},
		{"no city", "a@b.com", "JOAO", ""},
		{"all empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.key, tt.receiver, tt.city, 10)
			if err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			if got != "" {
				t.Fatalf("Encode() = %q, want empty sentinel", got)
			}
		})
	}
}

func TestEncodeInvalidAmount(t *testing.T) {
	if _, err := Encode("a@b.com", "JOAO", "SAO PAULO", -1); err == nil {
		t.Fatal("Encode() with negative amount should fail")
	}
}

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"João Gonçalves & Cia.", "JOAO GONCALVES  CIA"},
		{"São Paulo", "SAO PAULO"},
		{"Vitória", "VITORIA"},
		{"abc123", "ABC123"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeField(tt.in); got != tt.want {
			t.Errorf("sanitizeField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFieldCharset(t *testing.T) {
	got := sanitizeField("João Gonçalves & Cia.")
	for _, r := range got {
		ok := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == ' '
		if !ok {
			t.Fatalf("sanitizeField output contains %q outside [A-Z0-9 ]", r)
		}
	}
}

func TestEncodeTruncation(t *testing.T) {
	longName := strings.Repeat("A", 40)
	longCity := strings.Repeat("B", 30)
	payload, err := Encode("key@bank.com", longName, longCity, 5)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(payload, "5925"+strings.Repeat("A", 25)) {
		t.Errorf("receiver name not truncated to 25 chars: %s", payload)
	}
	if strings.Contains(payload, strings.Repeat("A", 26)) {
		t.Errorf("receiver name longer than 25 chars: %s", payload)
	}
	if !strings.Contains(payload, "6015"+strings.Repeat("B", 15)) {
		t.Errorf("city not truncated to 15 chars: %s", payload)
	}
}

func TestFieldLengthGuard(t *testing.T) {
	if _, err := field("59", strings.Repeat("x", 100)); err == nil {
		t.Fatal("field() must reject values longer than 99 chars")
	}
	enc, err := field("59", "JOAO")
	if err != nil {
		t.Fatalf("field() error: %v", err)
	}
	if enc != "5904JOAO" {
		t.Fatalf("field() = %q, want 5904JOAO", enc)
	}
}

func TestCRC16KnownVector(t *testing.T) {
	// CRC16/CCITT-FALSE check value for "123456789".
	if got := crc16("123456789"); got != 0x29B1 {
		t.Fatalf("crc16(123456789) = %04X, want 29B1", got)
	}
}
