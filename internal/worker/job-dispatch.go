package worker

import (
	"context"
	"fmt"

	"github.com/manan-abhishek/Raabta-ChatApp/internal/queue"
	worker_handler "github.com/manan-abhishek/Raabta-ChatApp/internal/worker/worker-handler"
)

func HandleJob(ctx context.Context, job queue.Job, handler *worker_handler.WorkerHandler) error {
	switch job.Type {
	case queue.JobTypeNotifyMembers:
		return handler.HandleNotifyMembers(ctx, job.Payload)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}
