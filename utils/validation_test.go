package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+447911123456", "+90 532 123 4567", "7911123456"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Fatalf("%q should be valid", phone)
		}
	}

	invalid := []string{"", "abc", "+0123", "++44123"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Fatalf("%q should be invalid", phone)
		}
	}
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(6)
	if len(s) != 6 {
		t.Fatalf("expected length 6, got %d", len(s))
	}
	if s == GenerateRandomString(6) && s == GenerateRandomString(6) {
		t.Fatalf("three identical random strings in a row")
	}
}
