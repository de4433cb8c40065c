package domain

// Task statuses. Free-form field: any status may move to any other.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	UserID      int    `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// TaskFromRecord maps a raw store record onto a Task.
func TaskFromRecord(r map[string]any) Task {
	return Task{
		ID:          intField(r, "id"),
		Title:       stringField(r, "title"),
		Description: stringField(r, "description"),
		Status:      stringField(r, "status"),
		UserID:      intField(r, "userId"),
		CreatedAt:   stringField(r, "createdAt"),
		UpdatedAt:   stringField(r, "updatedAt"),
	}
}

func stringField(r map[string]any, key string) string {
	s, _ := r[key].(string)
	return s
}

// intField tolerates both float64 (decoded JSON) and int (locally built records).
func intField(r map[string]any, key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
