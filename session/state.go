package session

// State is the derived session state: a pure function of the stored access
// token at any instant. CompanyID is "" until the user is scoped to a
// company.
type State struct {
	LoggedIn  bool
	CompanyID string
}

// Listener receives every session state recomputation. Notification is
// synchronous with the token mutation that produced it, and fires even when
// the recomputed value is unchanged.
type Listener func(State)
