package service

import (
	"strings"
	"testing"
)

func TestGenerateExamCodeFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateExamCode()
		if err != nil {
			t.Fatalf("GenerateExamCode: %v", err)
		}
		if len(code) != 9 || code[4] != '-' {
			t.Fatalf("code %q is not XXXX-XXXX", code)
		}
		for j, r := range code {
			if j == 4 {
				continue
			}
			if !strings.ContainsRune(examCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		if strings.ContainsAny(code, "0O1IL") {
			t.Fatalf("code %q contains an ambiguous character", code)
		}
	}
}

// sequence returns a generator that yields codes in order and then repeats the last one.
func sequence(codes ...string) CodeGenerator {
	i := 0
	return func() (string, error) {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}
