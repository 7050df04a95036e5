package validate

import "testing"

func TestEmail(t *testing.T) {
	valid := []string{"owner@example.com", "a@b.co", "first.last@pets.example.org"}
	for _, v := range valid {
		if !Email(v) {
			t.Fatalf("expected %q to be a valid email", v)
		}
	}

	invalid := []string{"", "not-an-email", "owner@", "Owner <owner@example.com>"}
	for _, v := range invalid {
		if Email(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}

func TestHexColor(t *testing.T) {
	valid := []string{"#fff", "#1d4ed8", "#ABCDEF"}
	for _, v := range valid {
		if !HexColor(v) {
			t.Fatalf("expected %q to be a valid hex color", v)
		}
	}

	invalid := []string{"", "1d4ed8", "#12345", "#gggggg"}
	for _, v := range invalid {
		if HexColor(v) {
			t.Fatalf("expected %q to be rejected", v)
		}
	}
}

func TestLengthBetween(t *testing.T) {
	if !LengthBetween("  rex  ", 2, 10) {
		t.Fatalf("trimmed length should count")
	}
	if LengthBetween("x", 2, 10) {
		t.Fatalf("too short value accepted")
	}
}
