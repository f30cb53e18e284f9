package domain

// Customer is the identity handed in by the authentication layer, read-only
// to this module.
type Customer struct {
	ID      string
	Name    string
	Email   string
	Address string
	Phone   string
	Blocked bool
}
