package sqlite

// Foreign keys are declared to document relationships, but enforcement is
// deliberately left off (see New): owners, followers and correspondents are
// soft references keyed by username.
const schema = `
BEGIN TRANSACTION;

CREATE TABLE
	IF NOT EXISTS users (
		username TEXT NOT NULL CHECK (length ("username") >= 3 AND length ("username") < 21),
		password TEXT NOT NULL,
		name TEXT,
		surname TEXT,
		email TEXT,
		date_of_birth TEXT,
		PRIMARY KEY ("username")
	);

CREATE TABLE
	IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		owner TEXT NOT NULL,
		description TEXT,
		creation_date TEXT NOT NULL,
		FOREIGN KEY (owner) REFERENCES users (username)
	);

CREATE INDEX IF NOT EXISTS "Image Owner Index" ON "images" ("owner" ASC);

CREATE TABLE
	IF NOT EXISTS follows (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		follower TEXT NOT NULL,
		followed TEXT NOT NULL,
		UNIQUE (follower, followed),
		FOREIGN KEY (follower) REFERENCES users (username),
		FOREIGN KEY (followed) REFERENCES users (username)
	);

CREATE TABLE
	IF NOT EXISTS likes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		follower TEXT NOT NULL,
		image_id INTEGER NOT NULL,
		UNIQUE (follower, image_id),
		FOREIGN KEY (follower) REFERENCES users (username),
		FOREIGN KEY (image_id) REFERENCES images (id)
	);

CREATE TABLE
	IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sender TEXT NOT NULL,
		recipient TEXT NOT NULL,
		message TEXT NOT NULL,
		datetime TEXT NOT NULL,
		FOREIGN KEY (sender) REFERENCES users (username),
		FOREIGN KEY (recipient) REFERENCES users (username)
	);

CREATE INDEX IF NOT EXISTS "Message Participants Index" ON "messages" ("sender", "recipient");

CREATE TABLE
	IF NOT EXISTS sessions (
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY ("key")
	);

COMMIT;
`
