package gke

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// OperationStatus is the status of a long-running operation.
type OperationStatus string

const (
	OperationPending  OperationStatus = "PENDING"
	OperationRunning  OperationStatus = "RUNNING"
	OperationDone     OperationStatus = "DONE"
	OperationAborting OperationStatus = "ABORTING"
)

// Known reports whether s is one of the statuses the API documents.
func (s OperationStatus) Known() bool {
	switch s {
	case OperationPending, OperationRunning, OperationDone, OperationAborting:
		return true
	}
	return false
}

// Operation is the subset of an operation payload the poller needs.
type Operation struct {
	Name          string
	OperationType string
	Status        OperationStatus
	StatusMessage string
	TargetLink    string
	SelfLink      string
}

// OperationFromPayload reads an operation out of its JSON payload.
func OperationFromPayload(payload map[string]any) Operation {
	return Operation{
		Name:          stringField(payload, "name"),
		OperationType: stringField(payload, "operationType"),
		Status:        OperationStatus(stringField(payload, "status")),
		StatusMessage: stringField(payload, "statusMessage"),
		TargetLink:    stringField(payload, "targetLink"),
		SelfLink:      stringField(payload, "selfLink"),
	}
}

func (op Operation) validate() error {
	if !op.Status.Known() {
		return &UnrecognizedStateError{Operation: op.Name, Status: string(op.Status)}
	}
	return nil
}

// WaitForOperation waits for the operation returned by a mutating call and
// then fetches its target resource.
//
// A 204 response means there is nothing to wait for. Each operation payload is
// checked for embedded errors before its status is considered. Once the
// operation is DONE the target link is fetched exactly once and may be absent,
// e.g. after a delete.
func (c *Client) WaitForOperation(ctx context.Context, id Identity, resp *Response) (map[string]any, error) {
	payload, err := ReturnIfObject(resp, false)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}

	done, err := c.waitForDone(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	target := OperationFromPayload(done).TargetLink
	if target == "" {
		return nil, nil
	}
	return c.Fetch(ctx, id, resolveLink(c.baseURL, target))
}

func (c *Client) waitForDone(ctx context.Context, id Identity, payload map[string]any) (map[string]any, error) {
	logger := log.FromContext(ctx)

	op := OperationFromPayload(payload)
	if err := op.validate(); err != nil {
		recordOperation(resultFailed)
		return nil, err
	}
	if op.Status == OperationDone {
		recordOperation(resultDone)
		return payload, nil
	}

	link, err := OperationLink(c.baseURL, id, op.Name)
	if err != nil {
		return nil, err
	}

	pollCtx := ctx
	if c.timeouts.Operation > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, c.timeouts.Operation)
		defer cancel()
	}

	interval := c.timeouts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}

	start := time.Now()
	err = wait.PollUntilContextCancel(pollCtx, interval, false, func(ctx context.Context) (bool, error) {
		logger.V(1).Info("waiting for operation", "operation", op.Name, "type", op.OperationType, "status", op.Status)

		resp, err := c.Get(ctx, id, link)
		if err != nil {
			return false, err
		}
		operationPollsTotal.Inc()

		next, err := ReturnIfObject(resp, false)
		if err != nil {
			return false, err
		}
		if next == nil {
			return false, &UnrecognizedStateError{Operation: op.Name}
		}
		payload = next
		op = OperationFromPayload(next)
		if err := op.validate(); err != nil {
			return false, err
		}
		return op.Status == OperationDone, nil
	})
	if err != nil {
		if wait.Interrupted(err) {
			recordOperation(resultTimeout)
			return nil, fmt.Errorf("%w %s (last status %s after %s): %w",
				ErrOperationTimeout, op.Name, op.Status, time.Since(start).Round(time.Millisecond), err)
		}
		recordOperation(resultFailed)
		return nil, err
	}

	logger.Info("operation done", "operation", op.Name, "type", op.OperationType, "duration", time.Since(start).Round(time.Millisecond))
	recordOperation(resultDone)
	return payload, nil
}
