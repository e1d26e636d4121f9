package errs

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ToJSON converts the error into a plain record suitable for crossing a process boundary.
// Causes are serialized recursively; uncoded causes keep only their message.
func (e *DaemonError) ToJSON() map[string]any {
	rec := map[string]any{
		"name":    e.Name,
		"message": e.Message,
		"code":    e.Code,
		"context": copyContext(e.Context),
	}
	if e.Stack != "" {
		rec["stack"] = e.Stack
	}
	if e.Cause != nil {
		var c Coded
		if errors.As(e.Cause, &c) {
			rec["cause"] = c.Base().ToJSON()
		} else {
			rec["cause"] = map[string]any{"name": "Error", "message": e.Cause.Error()}
		}
	}
	return rec
}

func (e *DaemonError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToJSON())
}

// FromJSON rebuilds a DaemonError from a record produced by ToJSON.
func FromJSON(rec map[string]any) *DaemonError {
	if rec == nil {
		return nil
	}

	e := &DaemonError{
		Name:    stringField(rec, "name"),
		Message: stringField(rec, "message"),
		Code:    stringField(rec, "code"),
		Stack:   stringField(rec, "stack"),
		Context: map[string]any{},
	}
	if e.Name == "" {
		e.Name = "DaemonError"
	}
	if e.Code == "" {
		e.Code = CodeUnknown
	}
	if ctx, ok := rec["context"].(map[string]any); ok {
		e.Context = copyContext(ctx)
	}
	if cause, ok := rec["cause"].(map[string]any); ok {
		if _, coded := cause["code"]; coded {
			e.Cause = FromJSON(cause)
		} else {
			e.Cause = errors.New(stringField(cause, "message"))
		}
	}
	return e
}

// ParseJSON decodes bytes produced by json.Marshal on a DaemonError.
func ParseJSON(data []byte) (*DaemonError, error) {
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode error record: %w", err)
	}
	return FromJSON(rec), nil
}

func stringField(rec map[string]any, key string) string {
	s, _ := rec[key].(string)
	return s
}

func copyContext(ctx map[string]any) map[string]any {
	out := make(map[string]any, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
