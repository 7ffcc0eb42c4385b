// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/parleyhq/parley/ent/predicate"
	"github.com/parleyhq/parley/ent/promptevent"
)

// PromptEventUpdate is the builder for updating PromptEvent entities.
type PromptEventUpdate struct {
	config
	hooks    []Hook
	mutation *PromptEventMutation
}

// Where appends a list predicates to the PromptEventUpdate builder.
func (_u *PromptEventUpdate) Where(ps ...predicate.PromptEvent) *PromptEventUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// Mutation returns the PromptEventMutation object of the builder.
func (_u *PromptEventUpdate) Mutation() *PromptEventMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *PromptEventUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *PromptEventUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *PromptEventUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *PromptEventUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *PromptEventUpdate) check() error {
	if _u.mutation.PromptCleared() && len(_u.mutation.PromptIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "PromptEvent.prompt"`)
	}
	return nil
}

func (_u *PromptEventUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(promptevent.Table, promptevent.Columns, sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{promptevent.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// PromptEventUpdateOne is the builder for updating a single PromptEvent entity.
type PromptEventUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *PromptEventMutation
}

// Mutation returns the PromptEventMutation object of the builder.
func (_u *PromptEventUpdateOne) Mutation() *PromptEventMutation {
	return _u.mutation
}

// Where appends a list predicates to the PromptEventUpdate builder.
func (_u *PromptEventUpdateOne) Where(ps ...predicate.PromptEvent) *PromptEventUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *PromptEventUpdateOne) Select(field string, fields ...string) *PromptEventUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated PromptEvent entity.
func (_u *PromptEventUpdateOne) Save(ctx context.Context) (*PromptEvent, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *PromptEventUpdateOne) SaveX(ctx context.Context) *PromptEvent {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *PromptEventUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *PromptEventUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *PromptEventUpdateOne) check() error {
	if _u.mutation.PromptCleared() && len(_u.mutation.PromptIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "PromptEvent.prompt"`)
	}
	return nil
}

func (_u *PromptEventUpdateOne) sqlSave(ctx context.Context) (_node *PromptEvent, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(promptevent.Table, promptevent.Columns, sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "PromptEvent.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, promptevent.FieldID)
		for _, f := range fields {
			if !promptevent.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != promptevent.FieldID {
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
	_node = &PromptEvent{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{promptevent.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
