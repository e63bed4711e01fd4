package redact

import (
	"strings"
	"testing"
)

func TestDeidentifySSN(t *testing.T) {
	out, applied := Deidentify("SSN: 123-45-6789")
	if !applied {
		t.Fatal("expected redactions to be applied")
	}
	if !strings.Contains(out, "[REDACTED_SSN]") {
		t.Fatalf("expected SSN sentinel, got %q", out)
	}
	if strings.Contains(out, "123-45-6789") {
		t.Fatalf("digits leaked: %q", out)
	}
}

func TestDeidentifyEmail(t *testing.T) {
	out, applied := Deidentify("Contact: jane@example.com")
	if !applied || !strings.Contains(out, "[REDACTED_EMAIL]") {
		t.Fatalf("expected email sentinel, got %q", out)
	}
}

func TestDeidentifyPhoneFormats(t *testing.T) {
	out, applied := Deidentify("Call (555) 123-4567 or 555-123-4567")
	if !applied {
		t.Fatal("expected redactions to be applied")
	}
	if strings.Contains(out, "4567") {
		t.Fatalf("phone digits leaked: %q", out)
	}
	if strings.Count(out, "[REDACTED_PHONE]") != 2 {
		t.Fatalf("expected both phone formats masked, got %q", out)
	}
}

func TestDeidentifyNameAndAddress(t *testing.T) {
	out, applied := Deidentify("Seen by Jane Doe at 42 Oak Avenue")
	if !applied {
		t.Fatal("expected redactions to be applied")
	}
	if !strings.Contains(out, "[REDACTED_NAME]") {
		t.Fatalf("expected name sentinel, got %q", out)
	}
	if strings.Contains(out, "Jane Doe") {
		t.Fatalf("name leaked: %q", out)
	}
}

func TestDeidentifyMRNAndPatientID(t *testing.T) {
	out, applied := Deidentify("MRN: 445566 Patient ID: 778899")
	if !applied {
		t.Fatal("expected redactions to be applied")
	}
	if !strings.Contains(out, "[REDACTED_MRN]") || !strings.Contains(out, "[REDACTED_PATIENT_ID]") {
		t.Fatalf("expected MRN and patient ID sentinels, got %q", out)
	}
}

func TestDeidentifyIsMonotonic(t *testing.T) {
	once, applied := Deidentify("SSN: 123-45-6789, email jane@example.com")
	if !applied {
		t.Fatal("expected first pass to redact")
	}
	twice, appliedAgain := Deidentify(once)
	if appliedAgain {
		t.Fatal("second pass reported redactions on sentinel-only input")
	}
	if twice != once {
		t.Fatalf("second pass changed text: %q -> %q", once, twice)
	}
}

func TestDeidentifyCleanTextUntouched(t *testing.T) {
	in := "blood pressure stable, continue current dose"
	out, applied := Deidentify(in)
	if applied || out != in {
		t.Fatalf("clean text modified: %q applied=%v", out, applied)
	}
}

func TestMaskIdentifiersNarrowPass(t *testing.T) {
	in := "Jane Doe reported fever. MRN: 1234. Reach her at jane@example.com or 555-123-4567."
	out := MaskIdentifiers(in)
	if !strings.Contains(out, "Jane Doe") {
		t.Fatalf("narrow pass must keep names, got %q", out)
	}
	for _, sentinel := range []string{"[REDACTED_ID]", "[REDACTED_EMAIL]", "[REDACTED_PHONE]"} {
		if !strings.Contains(out, sentinel) {
			t.Fatalf("expected %s in %q", sentinel, out)
		}
	}
	if strings.Contains(out, "jane@example.com") || strings.Contains(out, "555-123-4567") {
		t.Fatalf("identifier leaked: %q", out)
	}
}
