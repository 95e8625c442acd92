// Package schemas provides the embedded course JSON schema and SQL migration files.
package schemas

import "embed"

// CourseSchema is the JSON schema a generated course must satisfy.
//
//go:embed course.schema.json
var CourseSchema []byte

// Migrations contains all SQL migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
