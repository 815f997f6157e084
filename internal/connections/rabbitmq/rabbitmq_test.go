package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamedQueuesDeadLetterToDLQ(t *testing.T) {
	args := queueArgs("notifications_queue")
	assert.Equal(t, "dlx", args["x-dead-letter-exchange"])
	assert.Equal(t, "dlq", args["x-dead-letter-routing-key"])
	assert.NoError(t, args.Validate())
}

func TestExclusiveQueuesHaveNoDeadLetter(t *testing.T) {
	assert.Nil(t, queueArgs(""))
}
