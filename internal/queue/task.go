package queue

type TaskType string

const (
	// TaskTypeMessageAnalyzed announces one stored classifier verdict. The
	// worker reacts by recomputing the sender's mood trend and raising
	// alerts for qualifying events.
	TaskTypeMessageAnalyzed TaskType = "message_analyzed"
)
