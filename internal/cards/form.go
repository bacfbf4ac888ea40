package cards

import (
	"strconv"
	"strings"

	"bizcards/pkg/validation"
)

// Form is the card create/edit form as typed by the user. Numeric address
// fields arrive as text and are coerced by Input.
type Form struct {
	Title       string `json:"title" validate:"required,min=2"`
	Subtitle    string `json:"subtitle" validate:"required,min=2"`
	Description string `json:"description" validate:"required,min=2"`
	Phone       string `json:"phone" validate:"required,ilphone"`
	Email       string `json:"email" validate:"required,email,min=5"`
	Web         string `json:"web" validate:"required,min=6"`
	Image       struct {
		URL string `json:"url" validate:"omitempty,min=4,url"`
		Alt string `json:"alt" validate:"omitempty,min=4"`
	} `json:"image"`
	Address struct {
		State       string `json:"state" validate:"omitempty,min=2"`
		Country     string `json:"country" validate:"required,min=2"`
		City        string `json:"city" validate:"required,min=2"`
		Street      string `json:"street" validate:"required,min=2"`
		HouseNumber string `json:"houseNumber" validate:"required,number"`
		Zip         string `json:"zip" validate:"omitempty,number"`
	} `json:"address"`
}

// FormFrom pre-fills an edit form from an existing card.
func FormFrom(c Card) Form {
	var f Form
	f.Title, f.Subtitle, f.Description = c.Title, c.Subtitle, c.Description
	f.Phone, f.Email, f.Web = c.Phone, c.Email, c.Web
	f.Image.URL, f.Image.Alt = c.Image.URL, c.Image.Alt
	f.Address.State = c.Address.State
	f.Address.Country = c.Address.Country
	f.Address.City = c.Address.City
	f.Address.Street = c.Address.Street
	f.Address.HouseNumber = strconv.Itoa(c.Address.HouseNumber)
	if c.Address.Zip != 0 {
		f.Address.Zip = strconv.Itoa(c.Address.Zip)
	}
	return f
}

// Input validates the form and converts it into a write payload. On failure
// the error is a validation.Errors and nothing should be sent.
func (f Form) Input() (Input, error) {
	f.trim()
	if err := validation.Struct(f); err != nil {
		return Input{}, err
	}
	house, err := strconv.Atoi(f.Address.HouseNumber)
	if err != nil {
		return Input{}, validation.Errors{"address.houseNumber": "houseNumber must be a number"}
	}
	zip := 0
	if f.Address.Zip != "" {
		if zip, err = strconv.Atoi(f.Address.Zip); err != nil {
			return Input{}, validation.Errors{"address.zip": "zip must be a number"}
		}
	}
	return Input{
		Title:       f.Title,
		Subtitle:    f.Subtitle,
		Description: f.Description,
		Phone:       f.Phone,
		Email:       f.Email,
		Web:         f.Web,
		Image:       Image{URL: f.Image.URL, Alt: f.Image.Alt},
		Address: Address{
			State:       f.Address.State,
			Country:     f.Address.Country,
			City:        f.Address.City,
			Street:      f.Address.Street,
			HouseNumber: house,
			Zip:         zip,
		},
	}, nil
}

func (f *Form) trim() {
	for _, p := range []*string{
		&f.Title, &f.Subtitle, &f.Description, &f.Phone, &f.Email, &f.Web,
		&f.Image.URL, &f.Image.Alt,
		&f.Address.State, &f.Address.Country, &f.Address.City, &f.Address.Street,
		&f.Address.HouseNumber, &f.Address.Zip,
	} {
		*p = strings.TrimSpace(*p)
	}
}
