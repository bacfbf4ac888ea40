package cards

// Image is the card picture reference.
type Image struct {
	URL string `json:"url,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Address of the business on a card.
type Address struct {
	State       string `json:"state,omitempty"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"houseNumber"`
	Zip         int    `json:"zip,omitempty"`
}

// Card is a business card as returned by the backend. ID, BizNumber and
// UserID are assigned by the server.
type Card struct {
	ID          string   `json:"_id,omitempty"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	Description string   `json:"description"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Web         string   `json:"web,omitempty"`
	Image       Image    `json:"image"`
	Address     Address  `json:"address"`
	BizNumber   *int64   `json:"bizNumber,omitempty"`
	Likes       []string `json:"likes"`
	UserID      string   `json:"user_id,omitempty"`
}

// Input is the create/update payload: everything the client may write.
type Input struct {
	Title       string  `json:"title"`
	Subtitle    string  `json:"subtitle"`
	Description string  `json:"description"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Web         string  `json:"web,omitempty"`
	Image       Image   `json:"image"`
	Address     Address `json:"address"`
}

// LikedBy reports whether userID is in the card's likes.
func (c Card) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Card) normalize() {
	if c.Likes == nil {
		c.Likes = []string{}
	}
}
