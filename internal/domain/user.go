package domain

// User es una cuenta registrada. PasswordHash nunca se serializa hacia afuera.
type User struct {
	ID             string  `json:"id"`
	UserName       string  `json:"user_name"`
	Email          string  `json:"email"`
	SecondaryEmail *string `json:"email_user_second"`
	PasswordHash   string  `json:"-"`
}

// Public devuelve una copia sin el hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
