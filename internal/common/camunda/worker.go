// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler is the handler signature every pipeline worker exposes.
type JobHandler func(client worker.JobClient, job entities.Job)

// Worker wraps an open Zeebe job worker so the manager can drain it on
// shutdown without closing the shared gateway client.
type Worker struct {
	jobWorker worker.JobWorker
	logger    *zap.Logger
	taskType  string
}

func NewWorker(
	client zbc.Client,
	taskType string,
	maxJobsActive int,
	jobTimeout time.Duration,
	handler JobHandler,
	logger *zap.Logger,
) *Worker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(handler)).
		MaxJobsActive(maxJobsActive).
		Timeout(jobTimeout).
		Open()

	return &Worker{
		jobWorker: jobWorker,
		logger:    logger,
		taskType:  taskType,
	}
}

// Stop closes the job worker and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.jobWorker.Close()
	w.jobWorker.AwaitClose()
}
