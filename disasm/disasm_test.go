package disasm

import "testing"

func TestFormatADDI(t *testing.T) {
	got, err := Format(0x00500093) // addi x1, x0, 5
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "addi ra, zero, 0x00000005"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatLUI(t *testing.T) {
	got, err := Format(0xABCDE137) // lui x2, 0xABCDE
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "lui sp, 0xABCDE000"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatADD(t *testing.T) {
	got, err := Format(0x002081B3) // add x3, x1, x2
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "add gp, ra, sp"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatSRAIPrintsShamtInDecimal(t *testing.T) {
	got, err := Format(0x4010D093) // srai x1, x1, 1
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	want := "srai ra, ra, 1"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatECALLHasNoOperands(t *testing.T) {
	got, err := Format(0x00000073)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if got != "ecall" {
		t.Errorf("Format = %q, want %q", got, "ecall")
	}
}

func TestFormatInvalidWord(t *testing.T) {
	if _, err := Format(0x00000000); err == nil {
		t.Error("Format(0) should error: no matching opcode")
	}
}
