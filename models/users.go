package models

// User is a learner account. Accounts are only created by seeding.
type User struct {
	Id       int    `db:"id" yaml:"-"`
	Username string `db:"username" yaml:"username"`
	Password string `db:"password" yaml:"password"`
}

var UsersSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password TEXT NOT NULL
);`
