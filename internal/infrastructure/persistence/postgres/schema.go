package postgres

import (
	"context"
	"fmt"

	"github.com/schoolapp/school-records/internal/infrastructure/persistence/store"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEMA BOOTSTRAP
// ══════════════════════════════════════════════════════════════════════════════

// courses.teacherid carries no foreign key: teacher deletion behaviour is
// decided by the configured delete policy, and the orphan policy needs to
// leave dangling references in place.
var schemaStatements = []struct {
	name string
	sql  string
}{
	{
		name: "teachers",
		sql: `
CREATE TABLE IF NOT EXISTS teachers (
    teacherid BIGSERIAL PRIMARY KEY,
    teacherfname VARCHAR(255) NOT NULL,
    teacherlname VARCHAR(255) NOT NULL,
    employeenumber VARCHAR(16) NOT NULL UNIQUE,
    hiredate DATE NOT NULL,
    salary NUMERIC(12,2) NOT NULL
)`,
	},
	{
		name: "students",
		sql: `
CREATE TABLE IF NOT EXISTS students (
    studentid BIGSERIAL PRIMARY KEY,
    studentfname VARCHAR(255) NOT NULL,
    studentlname VARCHAR(255) NOT NULL,
    studentnumber VARCHAR(16) NOT NULL UNIQUE,
    enroldate DATE NOT NULL
)`,
	},
	{
		name: "courses",
		sql: `
CREATE TABLE IF NOT EXISTS courses (
    courseid BIGINT CONSTRAINT courses_pkey PRIMARY KEY,
    coursecode VARCHAR(16) NOT NULL CONSTRAINT courses_coursecode_key UNIQUE,
    teacherid BIGINT NOT NULL,
    startdate DATE NOT NULL,
    finishdate DATE NOT NULL,
    coursename VARCHAR(255) NOT NULL
)`,
	},
	{
		name: "courses_teacherid_idx",
		sql:  `CREATE INDEX IF NOT EXISTS courses_teacherid_idx ON courses (teacherid)`,
	},
}

// Bootstrap creates the school tables when they do not exist. Existing tables
// are left untouched; there is no versioning or rollback.
func Bootstrap(ctx context.Context, s store.Store) error {
	for _, stmt := range schemaStatements {
		if _, err := s.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("postgres: bootstrap %s: %w", stmt.name, err)
		}
	}
	return nil
}
