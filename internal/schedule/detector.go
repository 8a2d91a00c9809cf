package schedule

import (
	"fmt"

	"github.com/guilhermexp/lifebetter/internal/model"
)

// Detector reports scheduling conflicts between a candidate task and the
// rest of a snapshot. Only tasks sharing the candidate's scheduled date are
// considered.
type Detector struct {
	cfg model.ScheduleConfig
}

func NewDetector(cfg model.ScheduleConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Detect runs the overlap/proximity pass and then the location pass. The
// same pair may yield more than one conflict when several rules fire.
func (d *Detector) Detect(candidate model.Task, all []model.Task) []model.SchedulingConflict {
	if candidate.ScheduledDate == "" {
		return nil
	}
	candIv, ok := taskInterval(candidate, d.cfg.DefaultDurationMin)
	if !ok {
		return nil
	}

	others := sameDayTasks(candidate.ScheduledDate, all, candidate.ID)

	var conflicts []model.SchedulingConflict
	for _, other := range others {
		otherIv, ok := taskInterval(other, d.cfg.DefaultDurationMin)
		if !ok {
			continue
		}
		if c, found := d.overlapOrProximity(candidate, other, candIv, otherIv); found {
			conflicts = append(conflicts, c)
		}
	}
	for _, other := range others {
		otherIv, ok := taskInterval(other, d.cfg.DefaultDurationMin)
		if !ok {
			continue
		}
		if c, found := d.locationTransition(candidate, other, candIv, otherIv); found {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

// overlapOrProximity flags intersecting intervals as high severity. The
// boundary test is deliberately inclusive: back-to-back tasks touching at
// the exact minute count as overlapping, leaving no transition gap.
func (d *Detector) overlapOrProximity(candidate, other model.Task, a, b interval) (model.SchedulingConflict, bool) {
	if a.Start <= b.End && a.End >= b.Start {
		return model.SchedulingConflict{
			TaskID:            candidate.ID,
			ConflictingTaskID: other.ID,
			Type:              model.ConflictOverlap,
			Severity:          model.SeverityHigh,
			Suggestion:        fmt.Sprintf("Conflito de horário com %q. Considere reagendar uma das tarefas.", other.Title),
		}, true
	}
	if gapBetween(a, b) < d.cfg.ProximityGapMin {
		return model.SchedulingConflict{
			TaskID:            candidate.ID,
			ConflictingTaskID: other.ID,
			Type:              model.ConflictProximity,
			Severity:          model.SeverityMedium,
			Suggestion:        fmt.Sprintf("Menos de %d minutos de intervalo até %q.", d.cfg.ProximityGapMin, other.Title),
		}, true
	}
	return model.SchedulingConflict{}, false
}

// locationTransition flags a travel-time risk when the tasks sit at
// different places with too small a gap. It runs independently of the
// overlap/proximity pass.
func (d *Detector) locationTransition(candidate, other model.Task, a, b interval) (model.SchedulingConflict, bool) {
	if candidate.Location == "" || other.Location == "" || candidate.Location == other.Location {
		return model.SchedulingConflict{}, false
	}
	if gapBetween(a, b) >= d.cfg.TravelGapMin {
		return model.SchedulingConflict{}, false
	}
	return model.SchedulingConflict{
		TaskID:            candidate.ID,
		ConflictingTaskID: other.ID,
		Type:              model.ConflictLocation,
		Severity:          model.SeverityMedium,
		Suggestion:        fmt.Sprintf("Pouco tempo de deslocamento entre %q e %q (%s).", candidate.Location, other.Title, other.Location),
	}, true
}

// gapBetween is the free time separating two intervals: the later start
// minus the earlier end. Negative for intersecting intervals.
func gapBetween(a, b interval) int {
	if a.Start <= b.Start {
		return b.Start - a.End
	}
	return a.Start - b.End
}
