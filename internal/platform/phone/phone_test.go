package phone

import "testing"

func TestNormalize_AcceptedFormats(t *testing.T) {
	cases := map[string]string{
		"+251912345678":  "+251912345678",
		"251912345678":   "+251912345678",
		"0912345678":     "+251912345678",
		"912345678":      "+251912345678",
		"09 1234 5678":   "+251912345678",
		"+251-91-234-56-78": "+251912345678",
	}
	for in, want := range cases {
		got, err := Normalize(in)
		if err != nil {
			t.Fatalf("Normalize(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_Rejected(t *testing.T) {
	for _, in := range []string{"", "12345", "812345678", "00912345678", "abc"} {
		if _, err := Normalize(in); err == nil {
			t.Fatalf("Normalize(%q) expected error", in)
		}
	}
}

func TestIsNormalized(t *testing.T) {
	if !IsNormalized("+251912345678") {
		t.Fatalf("expected +251912345678 to be normalized")
	}
	if IsNormalized("0912345678") {
		t.Fatalf("0912345678 must not count as normalized")
	}
	if IsNormalized("+25191234567") {
		t.Fatalf("short number must not count as normalized")
	}
}
