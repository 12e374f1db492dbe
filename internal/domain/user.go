package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Customer is the stored customer record as the backend returns it.
// Password carries the credential hash and must never reach the browser.
type Customer struct {
	CustomerID  int64  `json:"customerID"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Address     string `json:"address,omitempty"`
	Password    string `json:"password,omitempty"`
	Role        Role   `json:"role"`
	IsVerified  bool   `json:"isVerified"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Public strips the credential hash.
func (c Customer) Public() Customer {
	c.Password = ""
	return c
}

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// CustomerInput is the registration payload.
type CustomerInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address,omitempty"`
	Password    string `json:"password"`
}

// CustomerUpdate is a partial profile update; nil fields are left alone.
type CustomerUpdate struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Role        *Role   `json:"role,omitempty"`
}

// Profile is the subset of a customer kept in the client session.
type Profile struct {
	CustomerID int64  `json:"customerID"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"isVerified"`
}
