package usecase

import (
	"errors"
	"fmt"
	"time"

	"github.com/naka-gawa/git-worklog/internal/domain"
)

// ErrInvalidRange is returned when the batch start precedes the stop date.
var ErrInvalidRange = errors.New("start date is before stop date")

// PlanBuckets cuts [stop, start] into newest-first buckets. Weekly buckets
// span seven days ending at the cursor, with the last one clamped to stop.
func PlanBuckets(g domain.Granularity, start, stop time.Time) ([]domain.Bucket, error) {
	start, stop = truncateDay(start), truncateDay(stop)
	if start.Before(stop) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInvalidRange, start.Format(domain.DateLayout), stop.Format(domain.DateLayout))
	}

	var buckets []domain.Bucket
	for cursor := start; !cursor.Before(stop); {
		b := domain.Bucket{Granularity: g, Start: cursor, End: cursor}
		switch g {
		case domain.Daily:
			cursor = cursor.AddDate(0, 0, -1)
		case domain.Weekly:
			b.Start = cursor.AddDate(0, 0, -6)
			if b.Start.Before(stop) {
				b.Start = stop
			}
			cursor = b.Start.AddDate(0, 0, -1)
		default:
			return nil, fmt.Errorf("unknown granularity %q", g)
		}
		buckets = append(buckets, b)
	}
	return buckets, nil
}

// truncateDay drops the clock so calendar arithmetic is not skewed by DST.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
