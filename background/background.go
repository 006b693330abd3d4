package background

import (
	"fmt"

	"github.com/bitmark-inc/triage-api/external/sms"
)

var ErrNoWorkerPhone = fmt.Errorf("assigned worker has no phone number")

// Background is a struct to maintain common clients
// and functions for all background workers
type Background struct {
	SMS sms.Sender
}
