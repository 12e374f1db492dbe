package gateway

// API bundles the four gateways of one client over a shared transport and
// cache.
type API struct {
	Users    *Users
	Cars     *Cars
	Bookings *Bookings
	Login    *Login
	Cache    *Cache
}

func New(t *Transport, c *Cache) *API {
	return &API{
		Users:    &Users{t: t, c: c},
		Cars:     &Cars{t: t, c: c},
		Bookings: &Bookings{t: t, c: c},
		Login:    &Login{t: t},
		Cache:    c,
	}
}
