package entity

// BankAccount cuenta bancaria de un partner o de la propia empresa (res.partner.bank).
type BankAccount struct {
	ID            string
	PartnerID     string
	AccountNumber string // IBAN o QR-IBAN, sin espacios
	BIC           string
	BankName      string
}
