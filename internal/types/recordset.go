// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import "time"

// RunStats summarises one conversion run.
type RunStats struct {
	Counted        int64         // Records seen by the counting pass (progress only)
	Discovered     int64         // Records read while detecting headers
	Written        int64         // Rows written by the projection pass
	Columns        int           // Size of the header set
	RowsWithExtras int64         // Rows that carried columns outside the header set
	Duration       time.Duration // Wall time of the whole run
}

