// Package model defines the Tendem entities (tasks, approvals, canvases and
// their paginated collections), the task status lifecycle, and the timestamp
// normalization applied when decoding them.
package model
