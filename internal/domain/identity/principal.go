package identity

const (
	RoleEmployee = "employee"
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Principal is an already-verified caller.
type Principal struct {
	UserID string
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
