package models

// VoteCounters holds the denormalized up/down tallies embedded in every
// votable row. The fields are mutated only inside the vote repository
// transaction so they never drift from the votes table.
type VoteCounters struct {
	Up   int `gorm:"column:up_votes;default:0;not null" json:"up"`
	Down int `gorm:"column:down_votes;default:0;not null" json:"down"`
}
