package entity

// Journal diario de banco/caja desde el que se emiten o reciben pagos.
type Journal struct {
	ID            string
	CompanyID     string
	Code          string
	Name          string
	Type          string // bank, cash
	CurrencyCode  string // vacío = moneda de la empresa
	BankAccountID string
}
