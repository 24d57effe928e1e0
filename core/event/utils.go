package event

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
)

// getEventName extracts the type name from an event value, unwrapping any pointer types.
//
// DESIGN DECISION: Returns only the bare type name without package path (e.g., "UserCreated").
// Handler routing and cross-module broadcast registration both key on this
// short name, so two modules that declare structurally-similar types with the
// same name deliberately share a routing slot. This is the decoupling
// mechanism that lets modules exchange messages without sharing concrete
// types; use distinct type names when that sharing is not desired.
//
// Example: Both users.CredentialsProvided and iam.CredentialsProvided resolve
// to "CredentialsProvided" and are delivered to each other's registrations.
func getEventName(v any) string {
	t := reflect.TypeOf(v)

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

// unmarshalPayload attempts to convert payload to type T.
func unmarshalPayload[T any](payload any) (T, error) {
	var zero T

	// Direct type match - payload is already the correct type
	if v, ok := payload.(T); ok {
		return v, nil
	}

	// Pointer events route by their element's name, so conversion must agree:
	// retry with the pointed-to value for handlers declared on the value type.
	if v := reflect.ValueOf(payload); v.Kind() == reflect.Pointer && !v.IsNil() {
		return unmarshalPayload[T](v.Elem().Interface())
	}

	// Handle []byte (raw JSON)
	if data, ok := payload.([]byte); ok {
		var evt T
		if err := json.Unmarshal(data, &evt); err != nil {
			return zero, fmt.Errorf("failed to unmarshal event: %w", err)
		}
		return evt, nil
	}

	// Handle map[string]interface{} from JSON unmarshaling.
	// This occurs when Event.Payload (typed as 'any') is unmarshaled from JSON:
	// the decoder produces a map since it doesn't know the concrete type.
	if m, ok := payload.(map[string]interface{}); ok {
		data, err := json.Marshal(m)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal map payload: %w", err)
		}
		var evt T
		if err := json.Unmarshal(data, &evt); err != nil {
			return zero, fmt.Errorf("failed to unmarshal map payload: %w", err)
		}
		return evt, nil
	}

	return zero, fmt.Errorf("unexpected payload type: %T", payload)
}

// safeHandle executes a handler with panic recovery.
// If the handler panics, the panic is caught and converted to an error.
func safeHandle(handler Handler, ctx context.Context, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler %s panicked: %v", handler.EventName(), r)
		}
	}()
	return handler.Handle(ctx, payload)
}
