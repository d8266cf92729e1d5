// Package testutil provides database, Redis and fixture helpers for tests.
package testutil

// Fixture inserts. Each helper returns the generated id.

// InsertUser inserts a user row.
func (d *TestDB) InsertUser(t TestingTB, name, email, password string, level int) int64 {
	t.Helper()
	return d.insertReturningID(t,
		`INSERT INTO "user" (name, email, password, level) VALUES ($1, $2, $3, $4) RETURNING id`,
		name, email, password, level)
}

// InsertJob inserts a job row.
func (d *TestDB) InsertJob(t TestingTB, title, description string) int64 {
	t.Helper()
	return d.insertReturningID(t,
		`INSERT INTO job (title, description) VALUES ($1, $2) RETURNING id`,
		title, description)
}

// InsertDocument inserts a working_document row. A nil status stores NULL.
func (d *TestDB) InsertDocument(t TestingTB, name, path string, status *string) int64 {
	t.Helper()
	return d.insertReturningID(t,
		`INSERT INTO working_document (document_name, document_path, status) VALUES ($1, $2, $3) RETURNING id`,
		name, path, status)
}

// LinkUserJob inserts a user_job_relation row.
func (d *TestDB) LinkUserJob(t TestingTB, userID, jobID int64) {
	t.Helper()
	d.Exec(t, `INSERT INTO user_job_relation (user_id, job_id) VALUES ($1, $2)`, userID, jobID)
}

// LinkJobDocument inserts a job_document_relation row.
func (d *TestDB) LinkJobDocument(t TestingTB, jobID, documentID int64) {
	t.Helper()
	d.Exec(t, `INSERT INTO job_document_relation (job_id, document_id) VALUES ($1, $2)`, jobID, documentID)
}

func (d *TestDB) insertReturningID(t TestingTB, query string, args ...any) int64 {
	t.Helper()
	var id int64
	if err := d.DB.QueryRow(d.Dialect.Rebind(query), args...).Scan(&id); err != nil {
		t.Fatalf("insert %q: %v", query, err)
	}
	return id
}
