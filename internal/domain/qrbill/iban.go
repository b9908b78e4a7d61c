package qrbill

import (
	"fmt"
	"strconv"
	"strings"
)

const swissIBANLength = 21

// qrIIDMin y qrIIDMax rango de IID reservado a QR-IBAN.
const (
	qrIIDMin = 30000
	qrIIDMax = 31999
)

// ValidateIBAN comprueba longitud, país CH/LI y dígitos de control (mod 97).
func ValidateIBAN(iban string) error {
	iban = strings.ToUpper(Normalize(iban))
	if len(iban) < 4 {
		return fmt.Errorf("qrbill: IBAN demasiado corto")
	}
	country := iban[:2]
	if country != "CH" && country != "LI" {
		return fmt.Errorf("qrbill: el IBAN debe ser de CH o LI, se recibió %s", country)
	}
	if len(iban) != swissIBANLength {
		return fmt.Errorf("qrbill: el IBAN %s debe tener %d caracteres", country, swissIBANLength)
	}
	if mod97(iban[4:]+iban[:4]) != 1 {
		return fmt.Errorf("qrbill: dígitos de control del IBAN inválidos")
	}
	return nil
}

// IsQRIBAN informa si el IBAN es un QR-IBAN (IID entre 30000 y 31999).
func IsQRIBAN(iban string) bool {
	iban = strings.ToUpper(Normalize(iban))
	if ValidateIBAN(iban) != nil {
		return false
	}
	iid, err := strconv.Atoi(iban[4:9])
	if err != nil {
		return false
	}
	return iid >= qrIIDMin && iid <= qrIIDMax
}
