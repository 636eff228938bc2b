package catalog

// Schema contains the SQL statements to create the catalog schema.
//
// AUTOINCREMENT keeps deleted ids from being handed out again. file_name is
// indexed for the collision lookup but deliberately not UNIQUE.
const Schema = `
CREATE TABLE IF NOT EXISTS exercises (
    exercise_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    author      TEXT NOT NULL,
    faculty     TEXT NOT NULL,
    file_name   TEXT NOT NULL,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_exercises_file_name ON exercises(file_name);
`
