package table

// VersionTable is the single-row table that counts writes to samples. It is
// bumped by the triggers installed with ChangeTrackingDDL, so a store can
// detect rows written by another connection or process and rebuild its
// in-memory index.
const VersionTable = "samples_version"

// ChangeTrackingDDL returns the statements that install the version counter
// and the AFTER INSERT/UPDATE/DELETE triggers bumping it on every write to
// the samples table. The statements are idempotent.
func ChangeTrackingDDL() []string {
	const bump = `INSERT INTO ` + VersionTable + `(id, version) VALUES(1, 1)
    ON CONFLICT(id) DO UPDATE SET version = version + 1;`

	return []string{
		`CREATE TABLE IF NOT EXISTS ` + VersionTable + ` (
    id      INTEGER PRIMARY KEY CHECK (id = 1),
    version INTEGER NOT NULL
);`,
		`CREATE TRIGGER IF NOT EXISTS samples_ai AFTER INSERT ON samples
BEGIN
    ` + bump + `
END;`,
		`CREATE TRIGGER IF NOT EXISTS samples_au AFTER UPDATE ON samples
BEGIN
    ` + bump + `
END;`,
		`CREATE TRIGGER IF NOT EXISTS samples_ad AFTER DELETE ON samples
BEGIN
    ` + bump + `
END;`,
	}
}
