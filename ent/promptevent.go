// Code generated by ent, DO NOT EDIT.

package ent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/promptevent"
)

// PromptEvent is the model entity for the PromptEvent schema.
type PromptEvent struct {
	config `json:"-"`
	// ID of the ent.
	ID int64 `json:"id,omitempty"`
	// PromptID holds the value of the "prompt_id" field.
	PromptID string `json:"prompt_id,omitempty"`
	// Contiguous per-prompt sequence starting at 0
	IndexNum int `json:"index_num,omitempty"`
	// Provider event type (message_start, content_block_delta, ...)
	Type string `json:"type,omitempty"`
	// Raw provider event
	Payload map[string]interface{} `json:"payload,omitempty"`
	// CreatedAt holds the value of the "created_at" field.
	CreatedAt time.Time `json:"created_at,omitempty"`
	// Edges holds the relations/edges for other nodes in the graph.
	// The values are being populated by the PromptEventQuery when eager-loading is set.
	Edges        PromptEventEdges `json:"edges"`
	selectValues sql.SelectValues
}

// PromptEventEdges holds the relations/edges for other nodes in the graph.
type PromptEventEdges struct {
	// Prompt holds the value of the prompt edge.
	Prompt *Prompt `json:"prompt,omitempty"`
	// loadedTypes holds the information for reporting if a
	// type was loaded (or requested) in eager-loading or not.
	loadedTypes [1]bool
}

// PromptOrErr returns the Prompt value or an error if the edge
// was not loaded in eager-loading, or loaded but was not found.
func (e PromptEventEdges) PromptOrErr() (*Prompt, error) {
	if e.Prompt != nil {
		return e.Prompt, nil
	} else if e.loadedTypes[0] {
		return nil, &NotFoundError{label: prompt.Label}
	}
	return nil, &NotLoadedError{edge: "prompt"}
}

// scanValues returns the types for scanning values from sql.Rows.
func (*PromptEvent) scanValues(columns []string) ([]any, error) {
	values := make([]any, len(columns))
	for i := range columns {
		switch columns[i] {
		case promptevent.FieldPayload:
			values[i] = new([]byte)
		case promptevent.FieldID, promptevent.FieldIndexNum:
			values[i] = new(sql.NullInt64)
		case promptevent.FieldPromptID, promptevent.FieldType:
			values[i] = new(sql.NullString)
		case promptevent.FieldCreatedAt:
			values[i] = new(sql.NullTime)
		default:
			values[i] = new(sql.UnknownType)
		}
	}
	return values, nil
}

// assignValues assigns the values that were returned from sql.Rows (after scanning)
// to the PromptEvent fields.
func (_m *PromptEvent) assignValues(columns []string, values []any) error {
	if m, n := len(values), len(columns); m < n {
		return fmt.Errorf("mismatch number of scan values: %d != %d", m, n)
	}
	for i := range columns {
		switch columns[i] {
		case promptevent.FieldID:
			value, ok := values[i].(*sql.NullInt64)
			if !ok {
				return fmt.Errorf("unexpected type %T for field id", value)
			}
			_m.ID = int64(value.Int64)
		case promptevent.FieldPromptID:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field prompt_id", values[i])
			} else if value.Valid {
				_m.PromptID = value.String
			}
		case promptevent.FieldIndexNum:
			if value, ok := values[i].(*sql.NullInt64); !ok {
				return fmt.Errorf("unexpected type %T for field index_num", values[i])
			} else if value.Valid {
				_m.IndexNum = int(value.Int64)
			}
		case promptevent.FieldType:
			if value, ok := values[i].(*sql.NullString); !ok {
				return fmt.Errorf("unexpected type %T for field type", values[i])
			} else if value.Valid {
				_m.Type = value.String
			}
		case promptevent.FieldPayload:
			if value, ok := values[i].(*[]byte); !ok {
				return fmt.Errorf("unexpected type %T for field payload", values[i])
			} else if value != nil && len(*value) > 0 {
				if err := json.Unmarshal(*value, &_m.Payload); err != nil {
					return fmt.Errorf("unmarshal field payload: %w", err)
				}
			}
		case promptevent.FieldCreatedAt:
			if value, ok := values[i].(*sql.NullTime); !ok {
				return fmt.Errorf("unexpected type %T for field created_at", values[i])
			} else if value.Valid {
				_m.CreatedAt = value.Time
			}
		default:
			_m.selectValues.Set(columns[i], values[i])
		}
	}
	return nil
}

// Value returns the ent.Value that was dynamically selected and assigned to the PromptEvent.
// This includes values selected through modifiers, order, etc.
func (_m *PromptEvent) Value(name string) (ent.Value, error) {
	return _m.selectValues.Get(name)
}

// QueryPrompt queries the "prompt" edge of the PromptEvent entity.
func (_m *PromptEvent) QueryPrompt() *PromptQuery {
	return NewPromptEventClient(_m.config).QueryPrompt(_m)
}

// Update returns a builder for updating this PromptEvent.
// Note that you need to call PromptEvent.Unwrap() before calling this method if this PromptEvent
// was returned from a transaction, and the transaction was committed or rolled back.
func (_m *PromptEvent) Update() *PromptEventUpdateOne {
	return NewPromptEventClient(_m.config).UpdateOne(_m)
}

// Unwrap unwraps the PromptEvent entity that was returned from a transaction after it was closed,
// so that all future queries will be executed through the driver which created the transaction.
func (_m *PromptEvent) Unwrap() *PromptEvent {
	_tx, ok := _m.config.driver.(*txDriver)
	if !ok {
		panic("ent: PromptEvent is not a transactional entity")
	}
	_m.config.driver = _tx.drv
	return _m
}

// String implements the fmt.Stringer.
func (_m *PromptEvent) String() string {
	var builder strings.Builder
	builder.WriteString("PromptEvent(")
	builder.WriteString(fmt.Sprintf("id=%v, ", _m.ID))
	builder.WriteString("prompt_id=")
	builder.WriteString(_m.PromptID)
	builder.WriteString(", ")
	builder.WriteString("index_num=")
	builder.WriteString(fmt.Sprintf("%v", _m.IndexNum))
	builder.WriteString(", ")
	builder.WriteString("type=")
	builder.WriteString(_m.Type)
	builder.WriteString(", ")
	builder.WriteString("payload=")
	builder.WriteString(fmt.Sprintf("%v", _m.Payload))
	builder.WriteString(", ")
	builder.WriteString("created_at=")
	builder.WriteString(_m.CreatedAt.Format(time.ANSIC))
	builder.WriteByte(')')
	return builder.String()
}

// PromptEvents is a parsable slice of PromptEvent.
type PromptEvents []*PromptEvent
