package entity

// AccountSettings is what a user can see and change about their own account.
type AccountSettings struct {
	Name   string `db:"name" json:"name"`
	Public bool   `db:"public" json:"public"`
}
