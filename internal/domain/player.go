package domain

// Player is a roster member who can take part in matches
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerRequest is the body of player create/rename requests
type PlayerRequest struct {
	Name string `json:"name"`
}
