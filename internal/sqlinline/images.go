package sqlinline

const QInsertImageRecord = `
INSERT INTO generated_images (image_url, prompt, user_id)
VALUES ($1, $2, $3)
RETURNING id, image_url, prompt, user_id, created_at;
`

const QSelectAllImageRecords = `
SELECT id, image_url, prompt, user_id, created_at
FROM generated_images
ORDER BY created_at DESC, id DESC;
`

const QSelectImageRecordsByUser = `
SELECT id, image_url, prompt, user_id, created_at
FROM generated_images
WHERE user_id = $1
ORDER BY created_at DESC, id DESC;
`
