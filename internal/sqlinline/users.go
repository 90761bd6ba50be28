package sqlinline

const QInsertUser = `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
RETURNING id, username, password_hash, created_at;
`

const QSelectUserByID = `
SELECT id, username, password_hash, created_at
FROM users
WHERE id = $1;
`

const QSelectUserByUsername = `
SELECT id, username, password_hash, created_at
FROM users
WHERE username = $1;
`
