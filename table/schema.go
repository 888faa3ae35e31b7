package table

import "database/sql"

const samplesSchema = `
CREATE TABLE IF NOT EXISTS samples (
    id      TEXT PRIMARY KEY,
    coords  BLOB NOT NULL,
    payload TEXT
);
`

// EnsureSchema creates the samples table in the provided database if it does
// not already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(samplesSchema)
	return err
}
