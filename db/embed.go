// Package db provides the embedded database schema and fixture catalog.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// FixtureProducts is the curated base catalog in JSON form. It seeds the
// products table and serves as the in-process fallback catalog when the
// database is unreachable.
//
//go:embed seed/products.json
var FixtureProducts []byte
