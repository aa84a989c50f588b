package users

import "github.com/mattn/go-sqlite3"

// Follow adds a directed follow edge. The unique constraint on the pair makes
// repeated follows fail with ErrDupFollow rather than piling up duplicate
// rows, which would otherwise distort follower counts.
func (ur *userRepository) Follow(follower, followed string) error {
	_, err := ur.Connection.Exec(
		"INSERT INTO follows (follower, followed) VALUES (?, ?)",
		follower,
		followed,
	)

	// detects whether the requester already follows the target
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDupFollow
		}
	}
	return err
}

// Unfollow removes every matching edge, so repeated calls act as no-ops;
// unfollowing a user who was never followed isn't an error.
func (ur *userRepository) Unfollow(follower, followed string) error {
	_, err := ur.Connection.Exec(
		"DELETE FROM follows WHERE follower = ? AND followed = ?",
		follower,
		followed,
	)
	return err
}

func (ur *userRepository) IsFollowing(follower, followed string) (exists bool) {
	var err = ur.Connection.QueryRow(
		"SELECT TRUE FROM follows WHERE follower = ? AND followed = ?",
		follower,
		followed,
	).Scan(&exists)
	return err == nil && exists
}

// CountFollowers always recomputes the aggregate; no counter columns exist to
// drift out of sync with the edges.
func (ur *userRepository) CountFollowers(username string) (count int, err error) {
	return count, ur.Connection.QueryRow(
		"SELECT COUNT(*) FROM follows WHERE followed = ?", username).Scan(&count)
}

func (ur *userRepository) CountFollowed(username string) (count int, err error) {
	return count, ur.Connection.QueryRow(
		"SELECT COUNT(*) FROM follows WHERE follower = ?", username).Scan(&count)
}
