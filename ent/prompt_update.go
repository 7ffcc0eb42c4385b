// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/parleyhq/parley/ent/predicate"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/promptevent"
	"github.com/parleyhq/parley/ent/toolcall"
)

// PromptUpdate is the builder for updating Prompt entities.
type PromptUpdate struct {
	config
	hooks    []Hook
	mutation *PromptMutation
}

// Where appends a list predicates to the PromptUpdate builder.
func (_u *PromptUpdate) Where(ps ...predicate.Prompt) *PromptUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetStatus sets the "status" field.
func (_u *PromptUpdate) SetStatus(v prompt.Status) *PromptUpdate {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *PromptUpdate) SetNillableStatus(v *prompt.Status) *PromptUpdate {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetModel sets the "model" field.
func (_u *PromptUpdate) SetModel(v string) *PromptUpdate {
	_u.mutation.SetModel(v)
	return _u
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_u *PromptUpdate) SetNillableModel(v *string) *PromptUpdate {
	if v != nil {
		_u.SetModel(*v)
	}
	return _u
}

// SetSystemMessage sets the "system_message" field.
func (_u *PromptUpdate) SetSystemMessage(v string) *PromptUpdate {
	_u.mutation.SetSystemMessage(v)
	return _u
}

// SetNillableSystemMessage sets the "system_message" field if the given value is not nil.
func (_u *PromptUpdate) SetNillableSystemMessage(v *string) *PromptUpdate {
	if v != nil {
		_u.SetSystemMessage(*v)
	}
	return _u
}

// ClearSystemMessage clears the value of the "system_message" field.
func (_u *PromptUpdate) ClearSystemMessage() *PromptUpdate {
	_u.mutation.ClearSystemMessage()
	return _u
}

// SetRequest sets the "request" field.
func (_u *PromptUpdate) SetRequest(v map[string]interface{}) *PromptUpdate {
	_u.mutation.SetRequest(v)
	return _u
}

// ClearRequest clears the value of the "request" field.
func (_u *PromptUpdate) ClearRequest() *PromptUpdate {
	_u.mutation.ClearRequest()
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *PromptUpdate) SetErrorMessage(v string) *PromptUpdate {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *PromptUpdate) SetNillableErrorMessage(v *string) *PromptUpdate {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *PromptUpdate) SetCompletedAt(v time.Time) *PromptUpdate {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *PromptUpdate) SetNillableCompletedAt(v *time.Time) *PromptUpdate {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *PromptUpdate) ClearCompletedAt() *PromptUpdate {
	_u.mutation.ClearCompletedAt()
	return _u
}

// AddEventIDs adds the "events" edge to the PromptEvent entity by IDs.
func (_u *PromptUpdate) AddEventIDs(ids ...int64) *PromptUpdate {
	_u.mutation.AddEventIDs(ids...)
	return _u
}

// AddEvents adds the "events" edges to the PromptEvent entity.
func (_u *PromptUpdate) AddEvents(v ...*PromptEvent) *PromptUpdate {
	ids := make([]int64, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddEventIDs(ids...)
}

// AddToolCallIDs adds the "tool_calls" edge to the ToolCall entity by IDs.
func (_u *PromptUpdate) AddToolCallIDs(ids ...string) *PromptUpdate {
	_u.mutation.AddToolCallIDs(ids...)
	return _u
}

// AddToolCalls adds the "tool_calls" edges to the ToolCall entity.
func (_u *PromptUpdate) AddToolCalls(v ...*ToolCall) *PromptUpdate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddToolCallIDs(ids...)
}

// Mutation returns the PromptMutation object of the builder.
func (_u *PromptUpdate) Mutation() *PromptMutation {
	return _u.mutation
}

// ClearEvents clears all "events" edges to the PromptEvent entity.
func (_u *PromptUpdate) ClearEvents() *PromptUpdate {
	_u.mutation.ClearEvents()
	return _u
}

// RemoveEventIDs removes the "events" edge to PromptEvent entities by IDs.
func (_u *PromptUpdate) RemoveEventIDs(ids ...int64) *PromptUpdate {
	_u.mutation.RemoveEventIDs(ids...)
	return _u
}

// RemoveEvents removes "events" edges to PromptEvent entities.
func (_u *PromptUpdate) RemoveEvents(v ...*PromptEvent) *PromptUpdate {
	ids := make([]int64, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveEventIDs(ids...)
}

// ClearToolCalls clears all "tool_calls" edges to the ToolCall entity.
func (_u *PromptUpdate) ClearToolCalls() *PromptUpdate {
	_u.mutation.ClearToolCalls()
	return _u
}

// RemoveToolCallIDs removes the "tool_calls" edge to ToolCall entities by IDs.
func (_u *PromptUpdate) RemoveToolCallIDs(ids ...string) *PromptUpdate {
	_u.mutation.RemoveToolCallIDs(ids...)
	return _u
}

// RemoveToolCalls removes "tool_calls" edges to ToolCall entities.
func (_u *PromptUpdate) RemoveToolCalls(v ...*ToolCall) *PromptUpdate {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveToolCallIDs(ids...)
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *PromptUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *PromptUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *PromptUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *PromptUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *PromptUpdate) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := prompt.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Prompt.status": %w`, err)}
		}
	}
	if _u.mutation.ConversationCleared() && len(_u.mutation.ConversationIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Prompt.conversation"`)
	}
	if _u.mutation.MessageCleared() && len(_u.mutation.MessageIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Prompt.message"`)
	}
	return nil
}

func (_u *PromptUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(prompt.Table, prompt.Columns, sqlgraph.NewFieldSpec(prompt.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(prompt.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Model(); ok {
		_spec.SetField(prompt.FieldModel, field.TypeString, value)
	}
	if value, ok := _u.mutation.SystemMessage(); ok {
		_spec.SetField(prompt.FieldSystemMessage, field.TypeString, value)
	}
	if _u.mutation.SystemMessageCleared() {
		_spec.ClearField(prompt.FieldSystemMessage, field.TypeString)
	}
	if value, ok := _u.mutation.Request(); ok {
		_spec.SetField(prompt.FieldRequest, field.TypeJSON, value)
	}
	if _u.mutation.RequestCleared() {
		_spec.ClearField(prompt.FieldRequest, field.TypeJSON)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(prompt.FieldErrorMessage, field.TypeString, value)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(prompt.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(prompt.FieldCompletedAt, field.TypeTime)
	}
	if _u.mutation.EventsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.EventsTable,
			Columns: []string{prompt.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64),
			},
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedEventsIDs(); len(nodes) > 0 && !_u.mutation.EventsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.EventsTable,
			Columns: []string{prompt.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.EventsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.EventsTable,
			Columns: []string{prompt.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _u.mutation.ToolCallsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.ToolCallsTable,
			Columns: []string{prompt.ToolCallsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString),
			},
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedToolCallsIDs(); len(nodes) > 0 && !_u.mutation.ToolCallsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.ToolCallsTable,
			Columns: []string{prompt.ToolCallsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.ToolCallsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.ToolCallsTable,
			Columns: []string{prompt.ToolCallsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{prompt.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// PromptUpdateOne is the builder for updating a single Prompt entity.
type PromptUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *PromptMutation
}

// SetStatus sets the "status" field.
func (_u *PromptUpdateOne) SetStatus(v prompt.Status) *PromptUpdateOne {
	_u.mutation.SetStatus(v)
	return _u
}

// SetNillableStatus sets the "status" field if the given value is not nil.
func (_u *PromptUpdateOne) SetNillableStatus(v *prompt.Status) *PromptUpdateOne {
	if v != nil {
		_u.SetStatus(*v)
	}
	return _u
}

// SetModel sets the "model" field.
func (_u *PromptUpdateOne) SetModel(v string) *PromptUpdateOne {
	_u.mutation.SetModel(v)
	return _u
}

// SetNillableModel sets the "model" field if the given value is not nil.
func (_u *PromptUpdateOne) SetNillableModel(v *string) *PromptUpdateOne {
	if v != nil {
		_u.SetModel(*v)
	}
	return _u
}

// SetSystemMessage sets the "system_message" field.
func (_u *PromptUpdateOne) SetSystemMessage(v string) *PromptUpdateOne {
	_u.mutation.SetSystemMessage(v)
	return _u
}

// SetNillableSystemMessage sets the "system_message" field if the given value is not nil.
func (_u *PromptUpdateOne) SetNillableSystemMessage(v *string) *PromptUpdateOne {
	if v != nil {
		_u.SetSystemMessage(*v)
	}
	return _u
}

// ClearSystemMessage clears the value of the "system_message" field.
func (_u *PromptUpdateOne) ClearSystemMessage() *PromptUpdateOne {
	_u.mutation.ClearSystemMessage()
	return _u
}

// SetRequest sets the "request" field.
func (_u *PromptUpdateOne) SetRequest(v map[string]interface{}) *PromptUpdateOne {
	_u.mutation.SetRequest(v)
	return _u
}

// ClearRequest clears the value of the "request" field.
func (_u *PromptUpdateOne) ClearRequest() *PromptUpdateOne {
	_u.mutation.ClearRequest()
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *PromptUpdateOne) SetErrorMessage(v string) *PromptUpdateOne {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *PromptUpdateOne) SetNillableErrorMessage(v *string) *PromptUpdateOne {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *PromptUpdateOne) SetCompletedAt(v time.Time) *PromptUpdateOne {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *PromptUpdateOne) SetNillableCompletedAt(v *time.Time) *PromptUpdateOne {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *PromptUpdateOne) ClearCompletedAt() *PromptUpdateOne {
	_u.mutation.ClearCompletedAt()
	return _u
}

// AddEventIDs adds the "events" edge to the PromptEvent entity by IDs.
func (_u *PromptUpdateOne) AddEventIDs(ids ...int64) *PromptUpdateOne {
	_u.mutation.AddEventIDs(ids...)
	return _u
}

// AddEvents adds the "events" edges to the PromptEvent entity.
func (_u *PromptUpdateOne) AddEvents(v ...*PromptEvent) *PromptUpdateOne {
	ids := make([]int64, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddEventIDs(ids...)
}

// AddToolCallIDs adds the "tool_calls" edge to the ToolCall entity by IDs.
func (_u *PromptUpdateOne) AddToolCallIDs(ids ...string) *PromptUpdateOne {
	_u.mutation.AddToolCallIDs(ids...)
	return _u
}

// AddToolCalls adds the "tool_calls" edges to the ToolCall entity.
func (_u *PromptUpdateOne) AddToolCalls(v ...*ToolCall) *PromptUpdateOne {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.AddToolCallIDs(ids...)
}

// Mutation returns the PromptMutation object of the builder.
func (_u *PromptUpdateOne) Mutation() *PromptMutation {
	return _u.mutation
}

// ClearEvents clears all "events" edges to the PromptEvent entity.
func (_u *PromptUpdateOne) ClearEvents() *PromptUpdateOne {
	_u.mutation.ClearEvents()
	return _u
}

// RemoveEventIDs removes the "events" edge to PromptEvent entities by IDs.
func (_u *PromptUpdateOne) RemoveEventIDs(ids ...int64) *PromptUpdateOne {
	_u.mutation.RemoveEventIDs(ids...)
	return _u
}

// RemoveEvents removes "events" edges to PromptEvent entities.
func (_u *PromptUpdateOne) RemoveEvents(v ...*PromptEvent) *PromptUpdateOne {
	ids := make([]int64, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveEventIDs(ids...)
}

// ClearToolCalls clears all "tool_calls" edges to the ToolCall entity.
func (_u *PromptUpdateOne) ClearToolCalls() *PromptUpdateOne {
	_u.mutation.ClearToolCalls()
	return _u
}

// RemoveToolCallIDs removes the "tool_calls" edge to ToolCall entities by IDs.
func (_u *PromptUpdateOne) RemoveToolCallIDs(ids ...string) *PromptUpdateOne {
	_u.mutation.RemoveToolCallIDs(ids...)
	return _u
}

// RemoveToolCalls removes "tool_calls" edges to ToolCall entities.
func (_u *PromptUpdateOne) RemoveToolCalls(v ...*ToolCall) *PromptUpdateOne {
	ids := make([]string, len(v))
	for i := range v {
		ids[i] = v[i].ID
	}
	return _u.RemoveToolCallIDs(ids...)
}

// Where appends a list predicates to the PromptUpdate builder.
func (_u *PromptUpdateOne) Where(ps ...predicate.Prompt) *PromptUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *PromptUpdateOne) Select(field string, fields ...string) *PromptUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated Prompt entity.
func (_u *PromptUpdateOne) Save(ctx context.Context) (*Prompt, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *PromptUpdateOne) SaveX(ctx context.Context) *Prompt {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *PromptUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *PromptUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *PromptUpdateOne) check() error {
	if v, ok := _u.mutation.Status(); ok {
		if err := prompt.StatusValidator(v); err != nil {
			return &ValidationError{Name: "status", err: fmt.Errorf(`ent: validator failed for field "Prompt.status": %w`, err)}
		}
	}
	if _u.mutation.ConversationCleared() && len(_u.mutation.ConversationIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Prompt.conversation"`)
	}
	if _u.mutation.MessageCleared() && len(_u.mutation.MessageIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Prompt.message"`)
	}
	return nil
}

func (_u *PromptUpdateOne) sqlSave(ctx context.Context) (_node *Prompt, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(prompt.Table, prompt.Columns, sqlgraph.NewFieldSpec(prompt.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "Prompt.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, prompt.FieldID)
		for _, f := range fields {
			if !prompt.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != prompt.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Status(); ok {
		_spec.SetField(prompt.FieldStatus, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Model(); ok {
		_spec.SetField(prompt.FieldModel, field.TypeString, value)
	}
	if value, ok := _u.mutation.SystemMessage(); ok {
		_spec.SetField(prompt.FieldSystemMessage, field.TypeString, value)
	}
	if _u.mutation.SystemMessageCleared() {
		_spec.ClearField(prompt.FieldSystemMessage, field.TypeString)
	}
	if value, ok := _u.mutation.Request(); ok {
		_spec.SetField(prompt.FieldRequest, field.TypeJSON, value)
	}
	if _u.mutation.RequestCleared() {
		_spec.ClearField(prompt.FieldRequest, field.TypeJSON)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(prompt.FieldErrorMessage, field.TypeString, value)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(prompt.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(prompt.FieldCompletedAt, field.TypeTime)
	}
	if _u.mutation.EventsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.EventsTable,
			Columns: []string{prompt.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64),
			},
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedEventsIDs(); len(nodes) > 0 && !_u.mutation.EventsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.EventsTable,
			Columns: []string{prompt.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.EventsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.EventsTable,
			Columns: []string{prompt.EventsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	if _u.mutation.ToolCallsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.ToolCallsTable,
			Columns: []string{prompt.ToolCallsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString),
			},
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.RemovedToolCallsIDs(); len(nodes) > 0 && !_u.mutation.ToolCallsCleared() {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.ToolCallsTable,
			Columns: []string{prompt.ToolCallsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Clear = append(_spec.Edges.Clear, edge)
	}
	if nodes := _u.mutation.ToolCallsIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.O2M,
			Inverse: false,
			Table:   prompt.ToolCallsTable,
			Columns: []string{prompt.ToolCallsColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_spec.Edges.Add = append(_spec.Edges.Add, edge)
	}
	_node = &Prompt{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{prompt.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
