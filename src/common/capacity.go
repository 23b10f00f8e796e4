package common

import (
	"atman/src/models"
	"atman/src/types"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The capacity ledger. All mutations of current_participants go through
// ReserveSeat/ReleaseSeat while the caller holds a FOR UPDATE lock on the
// event row, so concurrent reservers for the same event serialize.

func takeSeat(event *models.ScheduleEvent) error {
	if event.CurrentParticipants >= event.MaxParticipants {
		return types.ErrCapacityExceeded
	}
	event.CurrentParticipants++
	return nil
}

// freeSeat is clamped at zero: a double release must not corrupt the ledger.
func freeSeat(event *models.ScheduleEvent) {
	if event.CurrentParticipants > 0 {
		event.CurrentParticipants--
	}
}

// LockScheduleEvent loads the event row under a row-level exclusive lock
// held until the surrounding transaction commits or rolls back.
func LockScheduleEvent(tx *gorm.DB, id uint) (*models.ScheduleEvent, error) {
	var event models.ScheduleEvent
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&event).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrScheduleNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ReserveSeat increments the event's seat count by one, failing with
// ErrCapacityExceeded when the event is full. The event must have been
// loaded with LockScheduleEvent in the same transaction.
func ReserveSeat(tx *gorm.DB, event *models.ScheduleEvent) error {
	if err := takeSeat(event); err != nil {
		return err
	}
	return tx.
		Model(&models.ScheduleEvent{}).
		Where("id = ?", event.ID).
		Update("current_participants", event.CurrentParticipants).
		Error
}

// ReleaseSeat decrements the seat count, clamped at zero.
func ReleaseSeat(tx *gorm.DB, event *models.ScheduleEvent) error {
	freeSeat(event)
	return tx.
		Model(&models.ScheduleEvent{}).
		Where("id = ?", event.ID).
		Update("current_participants", event.CurrentParticipants).
		Error
}
