package csvio

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	in := "Name, Email ,Company\nAda,ada@example.com,Analytical\nGrace,grace@example.com,Navy\n"
	sheet, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []string{"Name", "Email", "Company"}
	for i, h := range want {
		if sheet.Headers[i] != h {
			t.Errorf("header %d = %q, want %q", i, sheet.Headers[i], h)
		}
	}
	if len(sheet.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(sheet.Records))
	}
	if sheet.Records[0]["Email"] != "ada@example.com" {
		t.Errorf("record 0 email = %q", sheet.Records[0]["Email"])
	}
}

func TestParse_RaggedRows(t *testing.T) {
	in := "Name,Email,Phone\nAda,ada@example.com\nGrace,grace@example.com,555,extra\n"
	sheet, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if sheet.Records[0]["Phone"] != "" {
		t.Errorf("missing trailing field should be empty, got %q", sheet.Records[0]["Phone"])
	}
	if sheet.Records[1]["Phone"] != "555" {
		t.Errorf("record 1 phone = %q", sheet.Records[1]["Phone"])
	}
}

func TestParse_HeaderOnly(t *testing.T) {
	sheet, err := Parse(strings.NewReader("Name,Email\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(sheet.Records) != 0 {
		t.Errorf("got %d records, want 0", len(sheet.Records))
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}
