package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	AddUser(data AddUserData) (User, error)
	IsUsernameAvailable(username string) bool
	ExistsUsername(username string) bool
	CheckCredentials(username, password string) bool
	GetUserInfo(username string) (User, error)
	GetUsers() ([]User, error)

	Follow(follower, followed string) error
	Unfollow(follower, followed string) error
	IsFollowing(follower, followed string) bool
	CountFollowers(username string) (int, error)
	CountFollowed(username string) (int, error)
}

type userRepository struct {
	Connection *sql.DB
}

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
	ErrDupFollow     = errors.New("user already follows target")
)

func NewRepository(connection *sql.DB) UserRepository {
	return &userRepository{connection}
}

// AddUser stores a new user with a hashed password. The primary key on
// usernames makes the insert itself reject duplicates, so the operation stays
// sound even when a caller skips the availability check.
func (ur *userRepository) AddUser(data AddUserData) (User, error) {

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("couldn't hash password for %q: %w", data.Username, err)
	}

	_, err = ur.Connection.Exec(
		"INSERT INTO users(username, password, name, surname, email, date_of_birth) VALUES(?, ?, ?, ?, ?, ?)",
		data.Username, string(hash), data.Name, data.Surname, data.Email, data.DateOfBirth)

	// a duplicate username violates the primary key
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return User{}, ErrUsernameTaken
		}
	}
	if err != nil {
		return User{}, fmt.Errorf("couldn't add user %q: %w", data.Username, err)
	}

	return User{
		Username:    data.Username,
		Name:        data.Name,
		Surname:     data.Surname,
		Email:       data.Email,
		DateOfBirth: data.DateOfBirth,
	}, nil
}

func (ur *userRepository) IsUsernameAvailable(username string) bool {
	return !ur.ExistsUsername(username)
}

func (ur *userRepository) ExistsUsername(username string) (exists bool) {
	// will return false in the absence of positive results
	err := ur.Connection.QueryRow("SELECT TRUE FROM users WHERE username = ?", username).Scan(&exists)
	return err == nil && exists
}

// CheckCredentials reports whether the given pair matches a stored user; any
// mismatch or storage failure yields a plain false, never an error.
func (ur *userRepository) CheckCredentials(username, password string) bool {
	var hash string
	if err := ur.Connection.QueryRow(
		"SELECT password FROM users WHERE username = ?", username).Scan(&hash); err != nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GetUserInfo either returns the user matching the username, or ErrNotFound
// along with an ignorable empty struct.
func (ur *userRepository) GetUserInfo(username string) (user User, err error) {
	if err = ur.Connection.QueryRow(
		"SELECT username, name, surname, email, date_of_birth FROM users WHERE username = ?", username).Scan(
		&user.Username,
		&user.Name,
		&user.Surname,
		&user.Email,
		&user.DateOfBirth,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user, ErrNotFound
		}
		return user, err
	}
	return user, nil
}

func (ur *userRepository) GetUsers() ([]User, error) {

	// initialise an empty slice to avoid null serialisation
	var users = make([]User, 0)

	rows, err := ur.Connection.Query(
		"SELECT username, name, surname, email, date_of_birth FROM users")
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		var user User
		if err = rows.Scan(&user.Username, &user.Name, &user.Surname, &user.Email, &user.DateOfBirth); err != nil {
			return users, err
		}
		users = append(users, user)
	}

	if err = rows.Err(); err != nil {
		return users, err
	}
	if err = rows.Close(); err != nil {
		return users, err
	}

	return users, nil
}
