package domain

type UserID string
type ChildID string

type User struct {
	ID     UserID
	Name   string
	Email  string
	Avatar string
	Phone  string
}

type ChildProfile struct {
	ID     ChildID
	Name   string
	Grade  string
	School string
	Avatar string
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (c *ChildProfile) Clone() *ChildProfile {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
