package sqlinline

// SchemaStatements are executed in order at startup. Each statement is
// idempotent.
var SchemaStatements = []string{
	`
CREATE TABLE IF NOT EXISTS users (
    id            BIGSERIAL PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	`
CREATE TABLE IF NOT EXISTS generated_images (
    id         BIGSERIAL PRIMARY KEY,
    image_url  TEXT NOT NULL,
    prompt     TEXT NOT NULL,
    user_id    BIGINT REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`,
	`
CREATE INDEX IF NOT EXISTS idx_generated_images_created_at
ON generated_images (created_at DESC, id DESC);
`,
	`
CREATE INDEX IF NOT EXISTS idx_generated_images_user_id
ON generated_images (user_id);
`,
}
