package models

type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

// Task is a work item assigned to an artist on a track. Status writes are
// deliberately unconstrained: any valid status may be set at any time.
type Task struct {
	ID          int64      `gorm:"primaryKey"           json:"id"`
	TrackID     int64      `gorm:"not null;index"       json:"trackId"`
	AssignedTo  int64      `gorm:"not null;index"       json:"assignedTo"`
	Description string     `gorm:"type:text;not null"   json:"description"`
	Status      TaskStatus `gorm:"type:text;not null"   json:"status"`
	CreatedAt   int64      `gorm:"autoCreateTime:milli" json:"createdAt"`
	UpdatedAt   int64      `gorm:"autoUpdateTime:milli" json:"updatedAt"`
}
