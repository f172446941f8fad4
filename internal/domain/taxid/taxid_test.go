package taxid

import (
	"testing"
)

func TestValidateCPF(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   bool
	}{
		{"valid", "11144477735", true},
		{"valid second", "52998224725", true},
		{"repeated digits", "11111111111", false},
		{"repeated zeros", "00000000000", false},
		{"first check digit wrong", "11144477745", false},
		{"second check digit wrong", "11144477734", false},
		{"mutated body digit", "21144477735", false},
		{"too short", "1114447773", false},
		{"too long", "111444777350", false},
		{"non digit", "1114447773a", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCPF(tt.digits); got != tt.want {
				t.Errorf("ValidateCPF(%q) = %v, want %v", tt.digits, got, tt.want)
			}
		})
	}
}

func TestValidateCPF_SingleDigitMutations(t *testing.T) {
	const valid = "11144477735"

	for pos := 0; pos < len(valid); pos++ {
		for repl := byte('0'); repl <= '9'; repl++ {
			if valid[pos] == repl {
				continue
			}
			mutated := valid[:pos] + string(repl) + valid[pos+1:]
			if ValidateCPF(mutated) {
				t.Errorf("mutation %q at position %d unexpectedly valid", mutated, pos)
			}
		}
	}
}

func TestValidateCNPJ(t *testing.T) {
	tests := []struct {
		name   string
		digits string
		want   bool
	}{
		{"valid", "11222333000181", true},
		{"valid second", "00000000000191", true},
		{"repeated digits", "11111111111111", false},
		{"repeated zeros", "00000000000000", false},
		{"first check digit wrong", "11222333000171", false},
		{"second check digit wrong", "11222333000182", false},
		{"mutated body digit", "11222433000181", false},
		{"too short", "1122233300018", false},
		{"cpf length", "11144477735", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCNPJ(tt.digits); got != tt.want {
				t.Errorf("ValidateCNPJ(%q) = %v, want %v", tt.digits, got, tt.want)
			}
		})
	}
}

func TestValidate_StripsFormatting(t *testing.T) {
	if !Validate("111.444.777-35", KindIndividual) {
		t.Error("formatted CPF should validate")
	}
	if !Validate("11.222.333/0001-81", KindOrganization) {
		t.Error("formatted CNPJ should validate")
	}
	if Validate("111.444.777-35", KindOrganization) {
		t.Error("CPF must not validate as CNPJ")
	}
	if Validate("11144477735", "") {
		t.Error("unknown kind must not validate")
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"111.444.777-35", "11144477735"},
		{"11.222.333/0001-81", "11222333000181"},
		{"  11144477735 ", "11144477735"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Canonicalize(tt.raw); got != tt.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
