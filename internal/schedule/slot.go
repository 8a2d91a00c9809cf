package schedule

import (
	"time"

	"github.com/guilhermexp/lifebetter/internal/model"
)

// Finder searches the configured horizon, day by day, for the first free
// gap inside work hours long enough to hold a task.
type Finder struct {
	cfg model.ScheduleConfig
}

func NewFinder(cfg model.ScheduleConfig) *Finder {
	return &Finder{cfg: cfg}
}

// FindSlot returns the earliest suitable slot on or after ref, or nil when
// the horizon is exhausted. Tasks without a start time never block a day.
func (f *Finder) FindSlot(task model.Task, all []model.Task, ref time.Time) *model.Slot {
	workStart, err := model.ParseClock(f.cfg.WorkStart)
	if err != nil {
		return nil
	}
	workEnd, err := model.ParseClock(f.cfg.WorkEnd)
	if err != nil {
		return nil
	}

	need := task.DurationMin
	if need <= 0 {
		need = f.cfg.DefaultDurationMin
	}

	for day := 0; day < f.cfg.HorizonDays; day++ {
		date := ref.AddDate(0, 0, day).Format("2006-01-02")
		busy := f.busyIntervals(date, all, task.ID)
		if start, ok := firstGap(busy, workStart, workEnd, need); ok {
			return &model.Slot{Date: date, Time: model.FormatClock(start)}
		}
	}
	return nil
}

func (f *Finder) busyIntervals(date string, all []model.Task, excludeID string) []interval {
	var ivs []interval
	for _, t := range sameDayTasks(date, all, excludeID) {
		if iv, ok := taskInterval(t, f.cfg.DefaultDurationMin); ok {
			ivs = append(ivs, iv)
		}
	}
	return mergeIntervals(ivs)
}

// firstGap scans the free ranges around the merged busy set, clamped to the
// work window, and returns the start of the first one at least need minutes
// long.
func firstGap(busy []interval, workStart, workEnd, need int) (int, bool) {
	cursor := workStart
	for _, iv := range busy {
		hi := iv.Start
		if hi > workEnd {
			hi = workEnd
		}
		if hi-cursor >= need {
			return cursor, true
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	if workEnd-cursor >= need {
		return cursor, true
	}
	return 0, false
}
