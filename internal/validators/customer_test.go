package validators

import "testing"

func TestIsValidCustomerName(t *testing.T) {
	valid := []string{
		"Juan",
		"Juan Pérez",
		"María José Núñez",
		"  Ana  ", // trimmed before checking
	}
	for _, name := range valid {
		if !IsValidCustomerName(name) {
			t.Fatalf("%q rejected", name)
		}
	}

	invalid := []string{
		"",
		"Jo",
		"Juan123",
		"Juan-Pérez",
		"a@b",
	}
	for _, name := range invalid {
		if IsValidCustomerName(name) {
			t.Fatalf("%q accepted", name)
		}
	}
}

func TestIsValidCustomerPhone(t *testing.T) {
	valid := []string{
		"0981123456",
		"0971000000",
		" 0985123456 ",
	}
	for _, phone := range valid {
		if !IsValidCustomerPhone(phone) {
			t.Fatalf("%q rejected", phone)
		}
	}

	invalid := []string{
		"",
		"0981",
		"09811234567", // one digit too many
		"021123456",   // landline prefix
		"+595981123456",
		"098112345a",
	}
	for _, phone := range invalid {
		if IsValidCustomerPhone(phone) {
			t.Fatalf("%q accepted", phone)
		}
	}
}
