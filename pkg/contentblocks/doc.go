// Package contentblocks provides storage and query handling for the content
// blocks edited in place by the client-side editing plugin.
//
// A content block is a schemaless JSON document identified by the hex form of
// a 12-byte object id. The Service interface exposes the five operations the
// plugin relies on (get, find, create, update, delete) on top of a pluggable
// Repository. MongoDB, Postgres and in-memory repositories are provided under
// the repo subpackages; HTTP handlers live in the api subpackage.
//
// Query Strings
//
// Find accepts the raw q= parameter sent by the plugin, for example
// {"@subject":"home-intro"}. Sanitize turns it into a Filter; string values
// written as /pattern/ become case-insensitive regular expression matches.
package contentblocks
