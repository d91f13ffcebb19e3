// Package prompt edits GenAiPromptTemplate documents the way a prompt
// engineer iterates on them: selecting versions, forking a new draft from
// the latest one, cloning a template under a new name, and splitting a
// template into one file per version.
//
// Version identifiers have the form "<id>=_<n>", where n counts the
// versions of a template. Operations that cannot apply, such as selecting
// the active version of a template that has none, return ErrNoVersions or
// ErrNoActiveVersion and leave the template unchanged.
package prompt
