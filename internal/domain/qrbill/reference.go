// Package qrbill contiene las reglas de dominio de la QR-factura suiza (Swiss Payment Standards):
// referencias QR/ISR (módulo 10 recursivo), referencia del acreedor ISO 11649, QR-IBAN y el
// contenido del código QR (SPC 0200).
package qrbill

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// tabla del algoritmo módulo 10 recursivo (SIX, ISR/QRR).
var mod10Table = [10]int{0, 9, 4, 6, 8, 2, 7, 1, 3, 5}

const (
	qrReferenceLength  = 27
	isrReferenceLength = 16
)

// Normalize elimina espacios de una referencia o IBAN.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ComputeCheckDigit calcula el dígito de control módulo 10 recursivo de una cadena numérica.
func ComputeCheckDigit(digits string) (byte, error) {
	if !isDigits(digits) {
		return 0, fmt.Errorf("qrbill: la referencia solo puede contener dígitos: %q", digits)
	}
	carry := 0
	for _, r := range digits {
		carry = mod10Table[(carry+int(r-'0'))%10]
	}
	return byte('0' + (10-carry)%10), nil
}

func hasValidCheckDigit(ref string) bool {
	if len(ref) < 2 || !isDigits(ref) {
		return false
	}
	check, err := ComputeCheckDigit(ref[:len(ref)-1])
	if err != nil {
		return false
	}
	return ref[len(ref)-1] == check
}

// IsQRReference referencia QR (QRR): exactamente 27 dígitos con dígito de control válido.
func IsQRReference(ref string) bool {
	ref = Normalize(ref)
	return len(ref) == qrReferenceLength && hasValidCheckDigit(ref)
}

// IsISRReference referencia ISR (BVR/ESR): 16 o 27 dígitos con dígito de control válido.
// Toda referencia QR es también una referencia ISR válida.
func IsISRReference(ref string) bool {
	ref = Normalize(ref)
	if len(ref) != isrReferenceLength && len(ref) != qrReferenceLength {
		return false
	}
	return hasValidCheckDigit(ref)
}

// BuildQRReference arma una referencia QR a partir de prefijo (p.ej. número de cliente) y
// número de documento: solo dígitos, relleno con ceros a 26 posiciones + dígito de control.
func BuildQRReference(prefix, number string) (string, error) {
	digits := onlyDigits(prefix + number)
	if len(digits) > qrReferenceLength-1 {
		return "", fmt.Errorf("qrbill: referencia demasiado larga (%d dígitos, máximo %d)", len(digits), qrReferenceLength-1)
	}
	body := strings.Repeat("0", qrReferenceLength-1-len(digits)) + digits
	check, err := ComputeCheckDigit(body)
	if err != nil {
		return "", err
	}
	return body + string(check), nil
}

// FormatQRReference agrupa una referencia QR en bloques de 5 desde la derecha:
// "210000000003139471430009017" → "21 00000 00003 13947 14300 09017".
func FormatQRReference(ref string) string {
	ref = Normalize(ref)
	var parts []string
	for len(ref) > 5 {
		parts = append([]string{ref[len(ref)-5:]}, parts...)
		ref = ref[:len(ref)-5]
	}
	if ref != "" {
		parts = append([]string{ref}, parts...)
	}
	return strings.Join(parts, " ")
}

// IsCreditorReference referencia del acreedor ISO 11649 ("RF" + 2 dígitos + hasta 21 alfanuméricos).
func IsCreditorReference(ref string) bool {
	ref = strings.ToUpper(Normalize(ref))
	if len(ref) < 5 || len(ref) > 25 || !strings.HasPrefix(ref, "RF") || !isDigits(ref[2:4]) {
		return false
	}
	return mod97(ref[4:]+ref[:4]) == 1
}

// mod97 convierte letras a números (A=10 … Z=35) y calcula el resto módulo 97 (ISO 7064).
func mod97(s string) int64 {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			fmt.Fprintf(&sb, "%d", r-'A'+10)
		default:
			return -1
		}
	}
	n, ok := new(big.Int).SetString(sb.String(), 10)
	if !ok {
		return -1
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64()
}

func onlyDigits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
