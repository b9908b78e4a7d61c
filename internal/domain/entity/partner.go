package entity

import "time"

// Partner representa un contacto (cliente o proveedor) de la empresa.
// CommercialPartnerID apunta a la entidad jurídica; para una empresa es su propio ID.
type Partner struct {
	ID                  string
	CompanyID           string
	CommercialPartnerID string
	Name                string
	Lang                string // de_CH, fr_CH, it_CH, en_US
	Email               string
	Street              string
	Zip                 string
	City                string
	CountryCode         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
