// Package schedule evaluates a task set for time conflicts and searches a
// bounded horizon for free slots. All computations are over minute
// intervals within a single day; callers supply a consistent task snapshot.
package schedule

import (
	"sort"

	"github.com/guilhermexp/lifebetter/internal/model"
)

// interval is [Start, End) in minutes since midnight.
type interval struct {
	Start int
	End   int
}

// taskInterval builds the busy interval for a task. Tasks without a start
// time, or with an unparseable one, take no part in interval math.
func taskInterval(t model.Task, defaultDurationMin int) (interval, bool) {
	if !t.HasStart() {
		return interval{}, false
	}
	start, err := model.ParseClock(t.StartTime)
	if err != nil {
		return interval{}, false
	}
	dur := t.DurationMin
	if dur <= 0 {
		dur = defaultDurationMin
	}
	return interval{Start: start, End: start + dur}, true
}

// sameDayTasks filters the snapshot down to other tasks sharing the date.
func sameDayTasks(date string, all []model.Task, excludeID string) []model.Task {
	var out []model.Task
	for _, t := range all {
		if t.ScheduledDate != date {
			continue
		}
		if excludeID != "" && t.ID == excludeID {
			continue
		}
		out = append(out, t)
	}
	return out
}

// mergeIntervals collapses overlapping and adjacent intervals into a
// minimal covering set, sorted by start.
func mergeIntervals(ivs []interval) []interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := make([]interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
