// Package ovba decodes the binary dir stream of a VBA project: the
// project information records, the reference array and the module records,
// per the [MS-OVBA] container format. It also implements the format's
// compressed-container scheme and the code-page text decoding the stream's
// narrow string fields depend on.
//
// Parsing is a single synchronous pass over an in-memory buffer. Strict
// mode turns every constant-field mismatch into an error; relaxed mode
// records them as diagnostics and keeps going, which is what real-world
// files usually need.
package ovba
