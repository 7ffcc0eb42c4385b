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
	"github.com/parleyhq/parley/ent/toolcall"
)

// ToolCallUpdate is the builder for updating ToolCall entities.
type ToolCallUpdate struct {
	config
	hooks    []Hook
	mutation *ToolCallMutation
}

// Where appends a list predicates to the ToolCallUpdate builder.
func (_u *ToolCallUpdate) Where(ps ...predicate.ToolCall) *ToolCallUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetState sets the "state" field.
func (_u *ToolCallUpdate) SetState(v toolcall.State) *ToolCallUpdate {
	_u.mutation.SetState(v)
	return _u
}

// SetNillableState sets the "state" field if the given value is not nil.
func (_u *ToolCallUpdate) SetNillableState(v *toolcall.State) *ToolCallUpdate {
	if v != nil {
		_u.SetState(*v)
	}
	return _u
}

// SetRequest sets the "request" field.
func (_u *ToolCallUpdate) SetRequest(v map[string]interface{}) *ToolCallUpdate {
	_u.mutation.SetRequest(v)
	return _u
}

// ClearRequest clears the value of the "request" field.
func (_u *ToolCallUpdate) ClearRequest() *ToolCallUpdate {
	_u.mutation.ClearRequest()
	return _u
}

// SetOutput sets the "output" field.
func (_u *ToolCallUpdate) SetOutput(v string) *ToolCallUpdate {
	_u.mutation.SetOutput(v)
	return _u
}

// SetNillableOutput sets the "output" field if the given value is not nil.
func (_u *ToolCallUpdate) SetNillableOutput(v *string) *ToolCallUpdate {
	if v != nil {
		_u.SetOutput(*v)
	}
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *ToolCallUpdate) SetErrorMessage(v string) *ToolCallUpdate {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *ToolCallUpdate) SetNillableErrorMessage(v *string) *ToolCallUpdate {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// SetStartedAt sets the "started_at" field.
func (_u *ToolCallUpdate) SetStartedAt(v time.Time) *ToolCallUpdate {
	_u.mutation.SetStartedAt(v)
	return _u
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_u *ToolCallUpdate) SetNillableStartedAt(v *time.Time) *ToolCallUpdate {
	if v != nil {
		_u.SetStartedAt(*v)
	}
	return _u
}

// ClearStartedAt clears the value of the "started_at" field.
func (_u *ToolCallUpdate) ClearStartedAt() *ToolCallUpdate {
	_u.mutation.ClearStartedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *ToolCallUpdate) SetCompletedAt(v time.Time) *ToolCallUpdate {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *ToolCallUpdate) SetNillableCompletedAt(v *time.Time) *ToolCallUpdate {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *ToolCallUpdate) ClearCompletedAt() *ToolCallUpdate {
	_u.mutation.ClearCompletedAt()
	return _u
}

// Mutation returns the ToolCallMutation object of the builder.
func (_u *ToolCallUpdate) Mutation() *ToolCallMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *ToolCallUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ToolCallUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *ToolCallUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ToolCallUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *ToolCallUpdate) check() error {
	if v, ok := _u.mutation.State(); ok {
		if err := toolcall.StateValidator(v); err != nil {
			return &ValidationError{Name: "state", err: fmt.Errorf(`ent: validator failed for field "ToolCall.state": %w`, err)}
		}
	}
	if _u.mutation.PromptCleared() && len(_u.mutation.PromptIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "ToolCall.prompt"`)
	}
	return nil
}

func (_u *ToolCallUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(toolcall.Table, toolcall.Columns, sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.State(); ok {
		_spec.SetField(toolcall.FieldState, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Request(); ok {
		_spec.SetField(toolcall.FieldRequest, field.TypeJSON, value)
	}
	if _u.mutation.RequestCleared() {
		_spec.ClearField(toolcall.FieldRequest, field.TypeJSON)
	}
	if value, ok := _u.mutation.Output(); ok {
		_spec.SetField(toolcall.FieldOutput, field.TypeString, value)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(toolcall.FieldErrorMessage, field.TypeString, value)
	}
	if value, ok := _u.mutation.StartedAt(); ok {
		_spec.SetField(toolcall.FieldStartedAt, field.TypeTime, value)
	}
	if _u.mutation.StartedAtCleared() {
		_spec.ClearField(toolcall.FieldStartedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(toolcall.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(toolcall.FieldCompletedAt, field.TypeTime)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{toolcall.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// ToolCallUpdateOne is the builder for updating a single ToolCall entity.
type ToolCallUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *ToolCallMutation
}

// SetState sets the "state" field.
func (_u *ToolCallUpdateOne) SetState(v toolcall.State) *ToolCallUpdateOne {
	_u.mutation.SetState(v)
	return _u
}

// SetNillableState sets the "state" field if the given value is not nil.
func (_u *ToolCallUpdateOne) SetNillableState(v *toolcall.State) *ToolCallUpdateOne {
	if v != nil {
		_u.SetState(*v)
	}
	return _u
}

// SetRequest sets the "request" field.
func (_u *ToolCallUpdateOne) SetRequest(v map[string]interface{}) *ToolCallUpdateOne {
	_u.mutation.SetRequest(v)
	return _u
}

// ClearRequest clears the value of the "request" field.
func (_u *ToolCallUpdateOne) ClearRequest() *ToolCallUpdateOne {
	_u.mutation.ClearRequest()
	return _u
}

// SetOutput sets the "output" field.
func (_u *ToolCallUpdateOne) SetOutput(v string) *ToolCallUpdateOne {
	_u.mutation.SetOutput(v)
	return _u
}

// SetNillableOutput sets the "output" field if the given value is not nil.
func (_u *ToolCallUpdateOne) SetNillableOutput(v *string) *ToolCallUpdateOne {
	if v != nil {
		_u.SetOutput(*v)
	}
	return _u
}

// SetErrorMessage sets the "error_message" field.
func (_u *ToolCallUpdateOne) SetErrorMessage(v string) *ToolCallUpdateOne {
	_u.mutation.SetErrorMessage(v)
	return _u
}

// SetNillableErrorMessage sets the "error_message" field if the given value is not nil.
func (_u *ToolCallUpdateOne) SetNillableErrorMessage(v *string) *ToolCallUpdateOne {
	if v != nil {
		_u.SetErrorMessage(*v)
	}
	return _u
}

// SetStartedAt sets the "started_at" field.
func (_u *ToolCallUpdateOne) SetStartedAt(v time.Time) *ToolCallUpdateOne {
	_u.mutation.SetStartedAt(v)
	return _u
}

// SetNillableStartedAt sets the "started_at" field if the given value is not nil.
func (_u *ToolCallUpdateOne) SetNillableStartedAt(v *time.Time) *ToolCallUpdateOne {
	if v != nil {
		_u.SetStartedAt(*v)
	}
	return _u
}

// ClearStartedAt clears the value of the "started_at" field.
func (_u *ToolCallUpdateOne) ClearStartedAt() *ToolCallUpdateOne {
	_u.mutation.ClearStartedAt()
	return _u
}

// SetCompletedAt sets the "completed_at" field.
func (_u *ToolCallUpdateOne) SetCompletedAt(v time.Time) *ToolCallUpdateOne {
	_u.mutation.SetCompletedAt(v)
	return _u
}

// SetNillableCompletedAt sets the "completed_at" field if the given value is not nil.
func (_u *ToolCallUpdateOne) SetNillableCompletedAt(v *time.Time) *ToolCallUpdateOne {
	if v != nil {
		_u.SetCompletedAt(*v)
	}
	return _u
}

// ClearCompletedAt clears the value of the "completed_at" field.
func (_u *ToolCallUpdateOne) ClearCompletedAt() *ToolCallUpdateOne {
	_u.mutation.ClearCompletedAt()
	return _u
}

// Mutation returns the ToolCallMutation object of the builder.
func (_u *ToolCallUpdateOne) Mutation() *ToolCallMutation {
	return _u.mutation
}

// Where appends a list predicates to the ToolCallUpdate builder.
func (_u *ToolCallUpdateOne) Where(ps ...predicate.ToolCall) *ToolCallUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *ToolCallUpdateOne) Select(field string, fields ...string) *ToolCallUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated ToolCall entity.
func (_u *ToolCallUpdateOne) Save(ctx context.Context) (*ToolCall, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *ToolCallUpdateOne) SaveX(ctx context.Context) *ToolCall {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *ToolCallUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *ToolCallUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *ToolCallUpdateOne) check() error {
	if v, ok := _u.mutation.State(); ok {
		if err := toolcall.StateValidator(v); err != nil {
			return &ValidationError{Name: "state", err: fmt.Errorf(`ent: validator failed for field "ToolCall.state": %w`, err)}
		}
	}
	if _u.mutation.PromptCleared() && len(_u.mutation.PromptIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "ToolCall.prompt"`)
	}
	return nil
}

func (_u *ToolCallUpdateOne) sqlSave(ctx context.Context) (_node *ToolCall, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(toolcall.Table, toolcall.Columns, sqlgraph.NewFieldSpec(toolcall.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "ToolCall.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, toolcall.FieldID)
		for _, f := range fields {
			if !toolcall.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != toolcall.FieldID {
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
	if value, ok := _u.mutation.State(); ok {
		_spec.SetField(toolcall.FieldState, field.TypeEnum, value)
	}
	if value, ok := _u.mutation.Request(); ok {
		_spec.SetField(toolcall.FieldRequest, field.TypeJSON, value)
	}
	if _u.mutation.RequestCleared() {
		_spec.ClearField(toolcall.FieldRequest, field.TypeJSON)
	}
	if value, ok := _u.mutation.Output(); ok {
		_spec.SetField(toolcall.FieldOutput, field.TypeString, value)
	}
	if value, ok := _u.mutation.ErrorMessage(); ok {
		_spec.SetField(toolcall.FieldErrorMessage, field.TypeString, value)
	}
	if value, ok := _u.mutation.StartedAt(); ok {
		_spec.SetField(toolcall.FieldStartedAt, field.TypeTime, value)
	}
	if _u.mutation.StartedAtCleared() {
		_spec.ClearField(toolcall.FieldStartedAt, field.TypeTime)
	}
	if value, ok := _u.mutation.CompletedAt(); ok {
		_spec.SetField(toolcall.FieldCompletedAt, field.TypeTime, value)
	}
	if _u.mutation.CompletedAtCleared() {
		_spec.ClearField(toolcall.FieldCompletedAt, field.TypeTime)
	}
	_node = &ToolCall{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{toolcall.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
