package user

// Principal is the authenticated identity attached to a request by the
// account service. Identity management itself lives outside this service.
type Principal struct {
	UserID  string
	IsAdmin bool
}
