package domain

type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	IsActive  bool
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
