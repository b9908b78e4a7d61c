// Package chuid valida y formatea el número de identificación de empresas suizas (UID).
package chuid

import (
	"fmt"
	"strings"
	"unicode"
)

// pesos del dígito de control UID (módulo 11) sobre los 8 primeros dígitos.
var uidWeights = [8]int{5, 4, 3, 2, 7, 6, 5, 4}

// Validate comprueba prefijo CHE y dígito de control. Acepta "CHE-123.456.789",
// "CHE123456789" y los sufijos de IVA "MWST", "TVA", "IVA".
func Validate(uid string) error {
	digits, err := normalize(uid)
	if err != nil {
		return err
	}
	expected, err := ComputeCheckDigit(string(digits[:8]))
	if err != nil {
		return err
	}
	if digits[8] != expected {
		return fmt.Errorf("chuid: dígito de control inválido: esperado %c, recibido %c", expected, digits[8])
	}
	return nil
}

// ComputeCheckDigit calcula el dígito de control de los 8 primeros dígitos del UID.
// Un resto que daría 10 no corresponde a ningún UID asignado.
func ComputeCheckDigit(base string) (byte, error) {
	digits := extractDigits(base)
	if len(digits) != 8 {
		return 0, fmt.Errorf("chuid: se requieren 8 dígitos, se encontraron %d", len(digits))
	}
	var sum int
	for i, d := range digits {
		sum += int(d-'0') * uidWeights[i]
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return '0', nil
	case 10:
		return 0, fmt.Errorf("chuid: %s no admite dígito de control", string(digits))
	}
	return byte('0' + check), nil
}

// Format devuelve el UID en la forma oficial CHE-123.456.789.
func Format(uid string) (string, error) {
	digits, err := normalize(uid)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("CHE-%s.%s.%s", digits[0:3], digits[3:6], digits[6:9]), nil
}

func normalize(uid string) ([]byte, error) {
	s := strings.ToUpper(strings.TrimSpace(uid))
	if !strings.HasPrefix(s, "CHE") {
		return nil, fmt.Errorf("chuid: %q no empieza por CHE", uid)
	}
	for _, suffix := range []string{"MWST", "TVA", "IVA"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	digits := extractDigits(s)
	if len(digits) != 9 {
		return nil, fmt.Errorf("chuid: el UID debe tener 9 dígitos, se encontraron %d", len(digits))
	}
	return digits, nil
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
