package users

import (
	"strconv"
	"strings"

	"bizcards/pkg/validation"
)

// RegisterForm mirrors the sign-up page fields.
type RegisterForm struct {
	FirstName   string `json:"firstName" validate:"required,min=2"`
	MiddleName  string `json:"middleName" validate:"omitempty,min=2"`
	LastName    string `json:"lastName" validate:"required,min=2"`
	Phone       string `json:"phone" validate:"required,ilphone"`
	Email       string `json:"email" validate:"required,email,min=5"`
	Password    string `json:"password" validate:"required,password=4"`
	ImageURL    string `json:"imgUrl" validate:"omitempty,min=4,url"`
	ImageAlt    string `json:"imgAlt" validate:"omitempty,min=4"`
	State       string `json:"state" validate:"omitempty,min=2"`
	Country     string `json:"country" validate:"required,min=2"`
	City        string `json:"city" validate:"required,min=3"`
	Street      string `json:"street" validate:"required,min=2"`
	HouseNumber string `json:"houseNumber" validate:"required,number"`
	Zip         string `json:"zipcode" validate:"omitempty,min=4"`
	IsBusiness  bool   `json:"isBusiness"`
}

// Registration validates the form and builds the sign-up payload.
func (f RegisterForm) Registration() (Registration, error) {
	trimAll(&f.FirstName, &f.MiddleName, &f.LastName, &f.Phone, &f.Email,
		&f.ImageURL, &f.ImageAlt, &f.State, &f.Country, &f.City, &f.Street, &f.HouseNumber, &f.Zip)
	if err := validation.Struct(f); err != nil {
		return Registration{}, err
	}
	house, err := strconv.Atoi(f.HouseNumber)
	if err != nil {
		return Registration{}, validation.Errors{"houseNumber": "houseNumber must be a number"}
	}
	return Registration{
		Name:     Name{First: f.FirstName, Middle: f.MiddleName, Last: f.LastName},
		Phone:    f.Phone,
		Email:    f.Email,
		Password: f.Password,
		Image:    Image{URL: f.ImageURL, Alt: f.ImageAlt},
		Address: Address{
			State: f.State, Country: f.Country, City: f.City, Street: f.Street,
			HouseNumber: house, Zip: f.Zip,
		},
		IsBusiness: f.IsBusiness,
	}, nil
}

// ProfileForm is the edit-profile modal. Email and password are not editable.
type ProfileForm struct {
	Name struct {
		First  string `json:"first" validate:"required,min=2"`
		Middle string `json:"middle" validate:"omitempty,min=2"`
		Last   string `json:"last" validate:"required,min=2"`
	} `json:"name"`
	Phone string `json:"phone" validate:"required,ilphone"`
	Image struct {
		URL string `json:"url" validate:"omitempty,min=4,url"`
		Alt string `json:"alt" validate:"omitempty,min=4"`
	} `json:"image"`
	Address struct {
		State       string `json:"state" validate:"omitempty,min=2"`
		Country     string `json:"country" validate:"required,min=2"`
		City        string `json:"city" validate:"required,min=3"`
		Street      string `json:"street" validate:"required,min=2"`
		HouseNumber string `json:"houseNumber" validate:"required,number"`
		Zip         string `json:"zip" validate:"omitempty,min=4"`
	} `json:"address"`
}

// ProfileFormFrom pre-fills the modal from the loaded user.
func ProfileFormFrom(u User) ProfileForm {
	var f ProfileForm
	f.Name.First, f.Name.Middle, f.Name.Last = u.Name.First, u.Name.Middle, u.Name.Last
	f.Phone = u.Phone
	f.Image.URL, f.Image.Alt = u.Image.URL, u.Image.Alt
	f.Address.State = u.Address.State
	f.Address.Country = u.Address.Country
	f.Address.City = u.Address.City
	f.Address.Street = u.Address.Street
	f.Address.HouseNumber = strconv.Itoa(u.Address.HouseNumber)
	f.Address.Zip = u.Address.Zip
	return f
}

// Update validates the form and builds the PUT payload.
func (f ProfileForm) Update() (ProfileUpdate, error) {
	trimAll(&f.Name.First, &f.Name.Middle, &f.Name.Last, &f.Phone, &f.Image.URL, &f.Image.Alt,
		&f.Address.State, &f.Address.Country, &f.Address.City, &f.Address.Street,
		&f.Address.HouseNumber, &f.Address.Zip)
	if err := validation.Struct(f); err != nil {
		return ProfileUpdate{}, err
	}
	house, err := strconv.Atoi(f.Address.HouseNumber)
	if err != nil {
		return ProfileUpdate{}, validation.Errors{"address.houseNumber": "houseNumber must be a number"}
	}
	return ProfileUpdate{
		Name:  Name{First: f.Name.First, Middle: f.Name.Middle, Last: f.Name.Last},
		Phone: f.Phone,
		Image: Image{URL: f.Image.URL, Alt: f.Image.Alt},
		Address: Address{
			State: f.Address.State, Country: f.Address.Country, City: f.Address.City,
			Street: f.Address.Street, HouseNumber: house, Zip: f.Address.Zip,
		},
	}, nil
}

// Validate checks login credentials before they are sent.
func (c Credentials) Validate() error {
	return validation.Struct(c)
}

func trimAll(ps ...*string) {
	for _, p := range ps {
		*p = strings.TrimSpace(*p)
	}
}
