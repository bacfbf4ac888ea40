package cards

import "strings"

// Predicate selects cards for a derived view.
type Predicate func(Card) bool

// All keeps every card.
func All(Card) bool { return true }

// Matches is the search rule: the trimmed, lower-cased search text must be a
// substring of the title, subtitle, description, city or country. Blank
// search text matches everything.
func Matches(c Card, search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	for _, field := range []string{c.Title, c.Subtitle, c.Description, c.Address.City, c.Address.Country} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// MatchesSearch binds Matches to one search string.
func MatchesSearch(search string) Predicate {
	return func(c Card) bool { return Matches(c, search) }
}

// OwnedBy keeps the cards created by userID.
func OwnedBy(userID string) Predicate {
	return func(c Card) bool { return c.UserID == userID }
}

// LikedBy keeps the cards userID has favorited.
func LikedBy(userID string) Predicate {
	return func(c Card) bool { return c.LikedBy(userID) }
}

// Filter returns the cards p keeps, in order. The result is never nil.
func Filter(cs []Card, p Predicate) []Card {
	out := make([]Card, 0, len(cs))
	for _, c := range cs {
		if p(c) {
			out = append(out, c)
		}
	}
	return out
}
