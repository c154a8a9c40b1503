package domain

// CartStore is the cart sequence of one client session.
type CartStore interface {
	Items() []CartItem
	Append(item CartItem) error
	Clear() error
}

// AuthState is the admin flag of one client session.
type AuthState interface {
	Authenticated() bool
	SetAuthenticated(v bool) error
}
