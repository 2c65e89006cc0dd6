package gateway

import "taproom/record"

// Status classifies the result of a write attempt.
type Status string

const (
	// StatusCreated: exactly one durable insert happened.
	StatusCreated Status = "created"
	// StatusRejected: the input was structurally invalid or referenced a
	// missing row. Nothing was written.
	StatusRejected Status = "rejected"
	// StatusConflict: the row would collide with a committed row on a
	// unique field. Nothing was written.
	StatusConflict Status = "conflict"
	// StatusStoreError: the backing store failed. The write was rolled
	// back; the reason is sanitized, details go to the log.
	StatusStoreError Status = "store_error"
)

// Outcome is the classified result of AttemptCreate. Expected failures are
// values here, not errors: only the boundary decides what they look like
// on the wire.
type Outcome struct {
	Status Status
	// Record holds the persisted row (with its assigned id) on Created.
	Record any
	// Errors carries field-level problems on Rejected.
	Errors []record.FieldError
	// Fields names the colliding unique fields on Conflict.
	Fields []string
	// Reason is a human-readable summary for every non-Created status.
	Reason string
}

func (o Outcome) OK() bool {
	return o.Status == StatusCreated
}

func created(row any) Outcome {
	return Outcome{Status: StatusCreated, Record: row}
}

func rejected(errs []record.FieldError) Outcome {
	reason := "validation failed"
	if len(errs) == 1 {
		reason = errs[0].Error()
	}
	return Outcome{Status: StatusRejected, Errors: errs, Reason: reason}
}

func rejectedReason(reason string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

func conflict(fields []string) Outcome {
	reason := "record already exists"
	if len(fields) > 0 {
		reason = "already taken: " + fields[0]
		for _, f := range fields[1:] {
			reason += ", " + f
		}
	}
	return Outcome{Status: StatusConflict, Fields: fields, Reason: reason}
}

func storeError() Outcome {
	return Outcome{Status: StatusStoreError, Reason: "the store failed to process the write"}
}
