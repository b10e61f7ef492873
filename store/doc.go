// Package store reads capture sessions from the session lake, a
// directory-per-session layout where each session_<id> directory holds
// routing.json, tokens.json, and manifest.json.
package store
