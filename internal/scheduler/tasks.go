package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskScoreRefresh = "creditscore.refresh"

const TaskScoreScanAll = "creditscore.scan_all"

// scanTaskTimeout replaces asynq's 30 minute default for the scan-all task.
// A full population scan runs until every user is enqueued, however large
// the tenant base has grown.
const scanTaskTimeout = 24 * time.Hour

type ScoreRefreshPayload struct {
	UserID string `json:"userId" validate:"required,uuid4"`
}

func NewScoreRefreshTask(payload ScoreRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScoreRefresh, data), nil
}

func ParseScoreRefreshPayload(task *asynq.Task) (ScoreRefreshPayload, error) {
	var payload ScoreRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScoreRefreshPayload{}, err
	}
	return payload, nil
}

func NewScoreScanAllTask() *asynq.Task {
	return asynq.NewTask(TaskScoreScanAll, nil)
}
