// internal/common/camunda/worker_test.go
package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
)

// startWorker passes each handler's Handle method as a JobHandler; this pins
// the signature against the Zeebe client's own handler type.
func TestJobHandlerMatchesZeebeSignature(t *testing.T) {
	called := false
	var h JobHandler = func(client worker.JobClient, job entities.Job) {
		called = true
	}

	zeebeHandler := worker.JobHandler(h)
	zeebeHandler(nil, entities.Job{})

	assert.True(t, called)
}
