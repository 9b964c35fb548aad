package domain

import "time"

// Catalog is an immutable snapshot of the player and club feeds.
// Players keep feed order, which is the deterministic order searches iterate in.
type Catalog struct {
	Players   []Player
	Clubs     []Club
	Fixtures  []Fixture
	FetchedAt time.Time

	playerByID map[int]*Player
	clubByID   map[int]*Club
}

// NewCatalog indexes players and clubs by ID
func NewCatalog(players []Player, clubs []Club, fixtures []Fixture, fetchedAt time.Time) *Catalog {
	c := &Catalog{
		Players:    players,
		Clubs:      clubs,
		Fixtures:   fixtures,
		FetchedAt:  fetchedAt,
		playerByID: make(map[int]*Player, len(players)),
		clubByID:   make(map[int]*Club, len(clubs)),
	}
	for i := range c.Players {
		c.playerByID[c.Players[i].ID] = &c.Players[i]
	}
	for i := range c.Clubs {
		c.clubByID[c.Clubs[i].ID] = &c.Clubs[i]
	}
	return c
}

// Player looks up a player by ID
func (c *Catalog) Player(id int) (*Player, bool) {
	if c == nil {
		return nil, false
	}
	p, ok := c.playerByID[id]
	return p, ok
}

// Club looks up a club by ID
func (c *Catalog) Club(id int) (*Club, bool) {
	if c == nil {
		return nil, false
	}
	club, ok := c.clubByID[id]
	return club, ok
}

// ClubShortName returns the club's short identifier, or "" when unknown
func (c *Catalog) ClubShortName(id int) string {
	if club, ok := c.Club(id); ok {
		return club.ShortName
	}
	return ""
}

// ActivePlayers returns pointers to every player with active status, in feed order
func (c *Catalog) ActivePlayers() []*Player {
	if c == nil {
		return nil
	}
	active := make([]*Player, 0, len(c.Players))
	for i := range c.Players {
		if c.Players[i].IsActive() {
			active = append(active, &c.Players[i])
		}
	}
	return active
}

// Len returns the number of players in the catalog
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Players)
}
