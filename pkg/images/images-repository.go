package images

import (
	"database/sql"
	"errors"
	"fmt"

	"instaai/pkg/dbtime"
	"instaai/pkg/users"
)

type ImageRepository interface {
	AddImage(url, owner, description string, created dbtime.Time) (Image, error)
	GetFeed(sessionUser string) ([]Image, error)
	GetUserImages(owner string) ([]Image, error)
	CountPosts(owner string) (int, error)

	AddLike(user string, imageId int64) error
	RemoveLike(user string, imageId int64) error
	HasLiked(user string, imageId int64) bool
	CountLikes(imageId int64) (int, error)
}

// Store wraps the shared connection along with the users repository, whose
// follow edges shape the feed query.
type Store struct {
	Connection *sql.DB
	UserStore  users.UserRepository
}

var (
	ErrNotFound = errors.New("image not found")
	ErrDupLike  = errors.New("user already liked the image")
)

func NewStore(connection *sql.DB, userStore users.UserRepository) *Store {
	return &Store{connection, userStore}
}

func (ar *Store) AddImage(url, owner, description string, created dbtime.Time) (Image, error) {

	result, err := ar.Connection.Exec(
		"INSERT INTO images (url, owner, description, creation_date) VALUES (?, ?, ?, ?)",
		url, owner, description, created)
	if err != nil {
		return Image{}, fmt.Errorf("couldn't add image for %q: %w", owner, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Image{}, err
	}

	return Image{
		Id:           id,
		Url:          url,
		Owner:        owner,
		Description:  description,
		CreationDate: created,
	}, nil
}

/*
GetFeed returns the images posted by every user the session user follows, most
recent first. The existence check must remain a correlated subquery rather
than a join: join duplication would repeat an image once per matching follow
edge, while EXISTS collapses any number of edges into a single row.
*/
func (ar *Store) GetFeed(sessionUser string) ([]Image, error) {
	return ar.queryImages(`
		SELECT id, url, owner, description, creation_date FROM images
		WHERE EXISTS (
			SELECT 1 FROM follows
			WHERE follower = ? AND followed = images.owner
		)
		ORDER BY creation_date DESC, id DESC`,
		sessionUser,
	)
}

// GetUserImages returns a single user's images, most recent first.
func (ar *Store) GetUserImages(owner string) ([]Image, error) {
	return ar.queryImages(`
		SELECT id, url, owner, description, creation_date FROM images
		WHERE owner = ?
		ORDER BY creation_date DESC, id DESC`,
		owner,
	)
}

func (ar *Store) queryImages(query string, args ...any) ([]Image, error) {

	// initialise an empty slice to avoid null serialisation
	var images = make([]Image, 0)

	rows, err := ar.Connection.Query(query, args...)
	if err != nil {
		return nil, err
	}

	defer closeRows(rows)

	// return partial results in case of errors
	for rows.Next() {
		var image Image
		if err = rows.Scan(&image.Id, &image.Url, &image.Owner, &image.Description, &image.CreationDate); err != nil {
			return images, err
		}
		images = append(images, image)
	}

	return images, rows.Err()
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}

func (ar *Store) CountPosts(owner string) (count int, err error) {
	return count, ar.Connection.QueryRow(
		"SELECT COUNT(*) FROM images WHERE owner = ?", owner).Scan(&count)
}
