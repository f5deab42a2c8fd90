package models

// Team is a group-stage participant. Identity and name never change once the
// tournament is created; Color is cosmetic and may be edited freely.
type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
	Color   string `json:"color,omitempty"`
}
