package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS students (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	university      TEXT NOT NULL DEFAULT '',
	major           TEXT NOT NULL DEFAULT '',
	bio             TEXT NOT NULL DEFAULT '',
	skills          TEXT NOT NULL DEFAULT '',
	github_url      TEXT NOT NULL DEFAULT '',
	github_projects TEXT,
	portfolio_url   TEXT NOT NULL DEFAULT '',
	active_cv_id    TEXT,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS certifications (
	id             TEXT PRIMARY KEY,
	student_id     TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	name           TEXT NOT NULL,
	issuer         TEXT NOT NULL DEFAULT '',
	issue_date     TEXT,
	expiry_date    TEXT,
	credential_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS experiences (
	id          TEXT PRIMARY KEY,
	student_id  TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	title       TEXT NOT NULL,
	company     TEXT NOT NULL DEFAULT '',
	location    TEXT NOT NULL DEFAULT '',
	start_date  TEXT NOT NULL,
	end_date    TEXT,
	current     INTEGER NOT NULL DEFAULT 0,
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	company         TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	location        TEXT NOT NULL DEFAULT '',
	required_skills TEXT NOT NULL DEFAULT '',
	active          INTEGER NOT NULL DEFAULT 1,
	created_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS cvs (
	id           TEXT PRIMARY KEY,
	student_id   TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	file_name    TEXT NOT NULL DEFAULT '',
	html_content TEXT NOT NULL DEFAULT '',
	parsed_text  TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS job_matches (
	id                TEXT PRIMARY KEY,
	student_id        TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	job_id            TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	match_score       REAL NOT NULL CHECK (match_score BETWEEN 1 AND 100),
	match_details     TEXT NOT NULL DEFAULT '',
	detailed_analysis TEXT,
	matched_at        TEXT NOT NULL,
	viewed            INTEGER NOT NULL DEFAULT 0,
	UNIQUE (student_id, job_id)
);
CREATE INDEX IF NOT EXISTS idx_job_matches_student ON job_matches(student_id);
`
