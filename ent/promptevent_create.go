// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/parleyhq/parley/ent/prompt"
	"github.com/parleyhq/parley/ent/promptevent"
)

// PromptEventCreate is the builder for creating a PromptEvent entity.
type PromptEventCreate struct {
	config
	mutation *PromptEventMutation
	hooks    []Hook
}

// SetPromptID sets the "prompt_id" field.
func (_c *PromptEventCreate) SetPromptID(v string) *PromptEventCreate {
	_c.mutation.SetPromptID(v)
	return _c
}

// SetIndexNum sets the "index_num" field.
func (_c *PromptEventCreate) SetIndexNum(v int) *PromptEventCreate {
	_c.mutation.SetIndexNum(v)
	return _c
}

// SetType sets the "type" field.
func (_c *PromptEventCreate) SetType(v string) *PromptEventCreate {
	_c.mutation.SetType(v)
	return _c
}

// SetPayload sets the "payload" field.
func (_c *PromptEventCreate) SetPayload(v map[string]interface{}) *PromptEventCreate {
	_c.mutation.SetPayload(v)
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *PromptEventCreate) SetCreatedAt(v time.Time) *PromptEventCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *PromptEventCreate) SetNillableCreatedAt(v *time.Time) *PromptEventCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *PromptEventCreate) SetID(v int64) *PromptEventCreate {
	_c.mutation.SetID(v)
	return _c
}

// SetPrompt sets the "prompt" edge to the Prompt entity.
func (_c *PromptEventCreate) SetPrompt(v *Prompt) *PromptEventCreate {
	return _c.SetPromptID(v.ID)
}

// Mutation returns the PromptEventMutation object of the builder.
func (_c *PromptEventCreate) Mutation() *PromptEventMutation {
	return _c.mutation
}

// Save creates the PromptEvent in the database.
func (_c *PromptEventCreate) Save(ctx context.Context) (*PromptEvent, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *PromptEventCreate) SaveX(ctx context.Context) *PromptEvent {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *PromptEventCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *PromptEventCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *PromptEventCreate) defaults() {
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := promptevent.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *PromptEventCreate) check() error {
	if _, ok := _c.mutation.PromptID(); !ok {
		return &ValidationError{Name: "prompt_id", err: errors.New(`ent: missing required field "PromptEvent.prompt_id"`)}
	}
	if _, ok := _c.mutation.IndexNum(); !ok {
		return &ValidationError{Name: "index_num", err: errors.New(`ent: missing required field "PromptEvent.index_num"`)}
	}
	if _, ok := _c.mutation.GetType(); !ok {
		return &ValidationError{Name: "type", err: errors.New(`ent: missing required field "PromptEvent.type"`)}
	}
	if _, ok := _c.mutation.Payload(); !ok {
		return &ValidationError{Name: "payload", err: errors.New(`ent: missing required field "PromptEvent.payload"`)}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "PromptEvent.created_at"`)}
	}
	if len(_c.mutation.PromptIDs()) == 0 {
		return &ValidationError{Name: "prompt", err: errors.New(`ent: missing required edge "PromptEvent.prompt"`)}
	}
	return nil
}

func (_c *PromptEventCreate) sqlSave(ctx context.Context) (*PromptEvent, error) {
	if err := _c.check(); err != nil {
		return nil, err
	}
	_node, _spec := _c.createSpec()
	if err := sqlgraph.CreateNode(ctx, _c.driver, _spec); err != nil {
		if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	if _spec.ID.Value != _node.ID {
		id := _spec.ID.Value.(int64)
		_node.ID = int64(id)
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *PromptEventCreate) createSpec() (*PromptEvent, *sqlgraph.CreateSpec) {
	var (
		_node = &PromptEvent{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(promptevent.Table, sqlgraph.NewFieldSpec(promptevent.FieldID, field.TypeInt64))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.IndexNum(); ok {
		_spec.SetField(promptevent.FieldIndexNum, field.TypeInt, value)
		_node.IndexNum = value
	}
	if value, ok := _c.mutation.GetType(); ok {
		_spec.SetField(promptevent.FieldType, field.TypeString, value)
		_node.Type = value
	}
	if value, ok := _c.mutation.Payload(); ok {
		_spec.SetField(promptevent.FieldPayload, field.TypeJSON, value)
		_node.Payload = value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(promptevent.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if nodes := _c.mutation.PromptIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   promptevent.PromptTable,
			Columns: []string{promptevent.PromptColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(prompt.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_node.PromptID = nodes[0]
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// PromptEventCreateBulk is the builder for creating many PromptEvent entities in bulk.
type PromptEventCreateBulk struct {
	config
	err      error
	builders []*PromptEventCreate
}

// Save creates the PromptEvent entities in the database.
func (_c *PromptEventCreateBulk) Save(ctx context.Context) ([]*PromptEvent, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*PromptEvent, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*PromptEventMutation)
				if !ok {
					return nil, fmt.Errorf("unexpected mutation type %T", m)
				}
				if err := builder.check(); err != nil {
					return nil, err
				}
				builder.mutation = mutation
				var err error
				nodes[i], specs[i] = builder.createSpec()
				if i < len(mutators)-1 {
					_, err = mutators[i+1].Mutate(root, _c.builders[i+1].mutation)
				} else {
					spec := &sqlgraph.BatchCreateSpec{Nodes: specs}
					// Invoke the actual operation on the latest mutation in the chain.
					if err = sqlgraph.BatchCreate(ctx, _c.driver, spec); err != nil {
						if sqlgraph.IsConstraintError(err) {
							err = &ConstraintError{msg: err.Error(), wrap: err}
						}
					}
				}
				if err != nil {
					return nil, err
				}
				mutation.id = &nodes[i].ID
				if specs[i].ID.Value != nil && nodes[i].ID == 0 {
					id := specs[i].ID.Value.(int64)
					nodes[i].ID = int64(id)
				}
				mutation.done = true
				return nodes[i], nil
			})
			for i := len(builder.hooks) - 1; i >= 0; i-- {
				mut = builder.hooks[i](mut)
			}
			mutators[i] = mut
		}(i, ctx)
	}
	if len(mutators) > 0 {
		if _, err := mutators[0].Mutate(ctx, _c.builders[0].mutation); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

// SaveX is like Save, but panics if an error occurs.
func (_c *PromptEventCreateBulk) SaveX(ctx context.Context) []*PromptEvent {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *PromptEventCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *PromptEventCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
