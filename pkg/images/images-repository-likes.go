package images

import "github.com/mattn/go-sqlite3"

// AddLike records a user's appreciation of an image; the unique constraint on
// the pair rejects repeated likes, which would otherwise inflate counts.
func (ar *Store) AddLike(user string, imageId int64) error {
	_, err := ar.Connection.Exec(
		"INSERT INTO likes (follower, image_id) VALUES (?, ?)",
		user,
		imageId,
	)

	// detects whether the user already liked the image
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDupLike
		}
	}
	return err
}

// RemoveLike deletes every matching row, so repeated calls act as no-ops;
// removing an absent like isn't an error.
func (ar *Store) RemoveLike(user string, imageId int64) error {
	_, err := ar.Connection.Exec(
		"DELETE FROM likes WHERE follower = ? AND image_id = ?",
		user,
		imageId,
	)
	return err
}

func (ar *Store) HasLiked(user string, imageId int64) (exists bool) {
	var err = ar.Connection.QueryRow(
		"SELECT TRUE FROM likes WHERE follower = ? AND image_id = ?",
		user,
		imageId,
	).Scan(&exists)
	return err == nil && exists
}

func (ar *Store) CountLikes(imageId int64) (count int, err error) {
	return count, ar.Connection.QueryRow(
		"SELECT COUNT(*) FROM likes WHERE image_id = ?", imageId).Scan(&count)
}
