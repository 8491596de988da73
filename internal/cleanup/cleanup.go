package cleanup

import (
	"context"
	"time"
)

type (
	Options struct {
		// DryRun lists candidates without mutating anything.
		DryRun bool
		// Now anchors all age calculations for the run.
		Now time.Time
		// IncludeUsed extends the token job to used tokens that have
		// not yet expired.
		IncludeUsed bool
		// Archive controls whether the audit job writes the JSON
		// archive before deleting. Disabling it deletes outright.
		Archive bool
	}

	// Item is one cleanup candidate as shown in dry-run listings.
	Item struct {
		ID          string
		Description string
		AgeDays     int
		Size        int64
	}

	Report struct {
		Job        string
		DryRun     bool
		Candidates []Item
		Deleted    int
		Failed     int
		// ArchiveLocation is set by the audit job after a live run.
		ArchiveLocation string
	}

	// Job enumerates candidates older than its retention threshold and
	// either lists or deletes them. A per-item failure never aborts the
	// run; it is counted and logged.
	Job interface {
		Name() string
		Run(ctx context.Context, opts Options) (Report, error)
	}
)

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

// Ok reports whether the run completed without per-item failures.
func (r Report) Ok() bool {
	return r.Failed == 0
}
