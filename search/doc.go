// Package search derives the displayed result set from buffered backend search
// results: relationship exclusion, client-side age/height/keyword refinement and
// pagination. Everything here is pure; the clock is passed in.
package search
