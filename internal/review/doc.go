// Package review implements the submission engine: validation, the
// upsert-or-merge path for repeat submissions, owner-scoped edits and
// deletes, and the rating history reducers used for popularity rankings.
package review
