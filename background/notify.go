package background

import (
	"context"

	"github.com/bitmark-inc/triage-api/schema"
)

// NotifyWorkerOfAlert texts the worker assigned to an alert and returns the
// message id from the gateway. reminder counts how often the worker was
// already told about it.
func (b *Background) NotifyWorkerOfAlert(ctx context.Context, lang string, alert schema.Alert, reminder int) (string, error) {
	if alert.AssignedWorker.Phone == "" {
		return "", ErrNoWorkerPhone
	}
	return b.SMS.Send(ctx, alert.AssignedWorker.Phone, AlertText(lang, alert, reminder))
}
