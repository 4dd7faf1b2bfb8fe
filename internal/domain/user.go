package domain

import "time"

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password"`
	FirstName    string    `db:"firstname"`
	LastName     string    `db:"lastname"`
	PhoneNumber  string    `db:"phonenumber"`
	DateOfBirth  time.Time `db:"dateofbirth"`
	CreatedAt    time.Time `db:"created_at"`
}

type Address struct {
	ID           int64     `db:"id"`
	UserID       int64     `db:"user_id"`
	AddressType  string    `db:"addresstype"`
	AddressLine1 string    `db:"addressline1"`
	AddressLine2 *string   `db:"addressline2"`
	Country      string    `db:"country"`
	State        *string   `db:"state"`
	City         string    `db:"city"`
	PhoneNumber  string    `db:"phonenumber"`
	CreatedAt    time.Time `db:"created_at"`
}
