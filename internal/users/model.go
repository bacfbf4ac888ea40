package users

// Name of a user; Middle is optional.
type Name struct {
	First  string `json:"first"`
	Middle string `json:"middle,omitempty"`
	Last   string `json:"last"`
}

type Image struct {
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Address of a user. Unlike cards, the zip is text.
type Address struct {
	State       string `json:"state,omitempty"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
	Zip         string `json:"zip,omitempty"`
}

// User as returned by the backend. IsAdmin is only ever read.
type User struct {
	ID         string  `json:"_id,omitempty"`
	Name       Name    `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Password   string  `json:"password,omitempty"`
	Image      Image   `json:"image"`
	Address    Address `json:"address"`
	IsBusiness bool    `json:"isBusiness"`
	IsAdmin    bool    `json:"isAdmin"`
}

// Registration is the POST /users payload. There is no isAdmin field: the
// client never sets it.
type Registration struct {
	Name       Name    `json:"name"`
	Phone      string  `json:"phone"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Image      Image   `json:"image"`
	Address    Address `json:"address"`
	IsBusiness bool    `json:"isBusiness"`
}

// ProfileUpdate is the PUT /users/:id payload.
type ProfileUpdate struct {
	Name    Name    `json:"name"`
	Phone   string  `json:"phone"`
	Image   Image   `json:"image"`
	Address Address `json:"address"`
}

// Credentials is the POST /users/login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email,min=5"`
	Password string `json:"password" validate:"required,password=3"`
}
