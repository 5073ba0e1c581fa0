// Package installer materializes resolved utilities as source files in a
// project and removes them again. Items are processed one at a time in the
// order given; a failing item is recorded in its result and never stops the
// rest of the batch.
package installer
