package model

import "github.com/google/uuid"

// Registration carries the registration form. Profile fields are optional.
type Registration struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	Name             string `json:"name"`
	Phone            string `json:"phone"`
	DOB              string `json:"dob"`
	Institution      string `json:"institution"`
	Course           string `json:"course"`
	Year             string `json:"year"`
	FavouriteTeacher string `json:"favouriteTeacher"`
	SocialMedia      string `json:"socialMedia"`
	Bio              string `json:"bio"`
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	ID     uuid.UUID     `json:"id"`
	Email  string        `json:"email"`
	Status AccountStatus `json:"status"`
	Token  string        `json:"token"`
}
