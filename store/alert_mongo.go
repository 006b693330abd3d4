package store

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bitmark-inc/triage-api/schema"
)

type counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// nextAlertID increments the alert counter atomically and returns the new value
func (m *mongoDB) nextAlertID(ctx context.Context) (int64, error) {
	c := m.client.Database(m.database).Collection(schema.CounterCollection)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cnt counter
	if err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": schema.AlertCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&cnt); err != nil {
		return 0, err
	}

	return cnt.Seq, nil
}

func (m *mongoDB) Create(ctx context.Context, n schema.NewAlert) (*schema.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := m.nextAlertID(ctx)
	if err != nil {
		log.WithField("prefix", mongoLogPrefix).Errorf("increase alert counter with error: %s", err)
		return nil, fmt.Errorf("allocate alert id: %w", err)
	}

	// mongo keeps milliseconds only
	a := schema.Alert{
		ID:              id,
		PatientPhone:    n.PatientPhone,
		PatientLocation: n.PatientLocation.Clone(),
		ResolvedAddress: n.ResolvedAddress,
		Symptoms:        n.Symptoms.Clone(),
		RiskTier:        schema.RiskHigh,
		Status:          schema.AlertNew,
		AssignedWorker:  n.AssignedWorker,
		CreatedAt:       now().UTC().Truncate(time.Millisecond),
	}

	c := m.client.Database(m.database).Collection(schema.AlertCollection)
	if _, err := c.InsertOne(ctx, a); err != nil {
		log.WithField("prefix", mongoLogPrefix).Errorf("insert alert %d with error: %s", id, err)
		return nil, err
	}

	log.WithField("prefix", mongoLogPrefix).Debugf("alert %d created for worker %d", id, a.AssignedWorker.ID)
	return &a, nil
}

func (m *mongoDB) Get(ctx context.Context, id int64) (*schema.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.AlertCollection)

	var a schema.Alert
	if err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (m *mongoDB) ListForWorker(ctx context.Context, workerID int64) ([]schema.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c := m.client.Database(m.database).Collection(schema.AlertCollection)

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})
	cur, err := c.Find(ctx, bson.M{"assigned_to.id": workerID}, opts)
	if err != nil {
		log.WithField("prefix", mongoLogPrefix).Errorf("query alerts of worker %d with error: %s", workerID, err)
		return nil, err
	}

	alerts := make([]schema.Alert, 0)
	if err := cur.All(ctx, &alerts); err != nil {
		log.WithField("prefix", mongoLogPrefix).Errorf("decode alerts of worker %d with error: %s", workerID, err)
		return nil, err
	}

	return alerts, nil
}

// UpdateStatus moves a NEW alert to CONTACTING. The filter on the current
// status makes the check and the write a single atomic step.
func (m *mongoDB) UpdateStatus(ctx context.Context, id int64, status schema.AlertStatus) (*schema.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if status != schema.AlertContacting {
		if _, err := m.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidTransition
	}

	c := m.client.Database(m.database).Collection(schema.AlertCollection)

	var a schema.Alert
	err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": schema.AlertNew},
		bson.M{"$set": bson.M{"status": status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err == nil {
		return &a, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	current, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, checkStatusUpdate(current.Status, status)
}

// Resolve closes a CONTACTING alert with an outcome
func (m *mongoDB) Resolve(ctx context.Context, id int64, resolution schema.Resolution, notes string) (*schema.Alert, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if !resolution.Valid() {
		if _, err := m.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrInvalidResolution
	}

	c := m.client.Database(m.database).Collection(schema.AlertCollection)

	var a schema.Alert
	err := c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": schema.AlertContacting},
		bson.M{"$set": bson.M{
			"status":      schema.AlertResolved,
			"resolution":  resolution,
			"notes":       notes,
			"resolved_at": now().UTC().Truncate(time.Millisecond),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err == nil {
		return &a, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	current, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, checkResolve(current.Status, resolution)
}
