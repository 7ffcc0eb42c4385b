// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/message"
)

// BlockCreate is the builder for creating a Block entity.
type BlockCreate struct {
	config
	mutation *BlockMutation
	hooks    []Hook
}

// SetMessageID sets the "message_id" field.
func (_c *BlockCreate) SetMessageID(v string) *BlockCreate {
	_c.mutation.SetMessageID(v)
	return _c
}

// SetPromptID sets the "prompt_id" field.
func (_c *BlockCreate) SetPromptID(v string) *BlockCreate {
	_c.mutation.SetPromptID(v)
	return _c
}

// SetNillablePromptID sets the "prompt_id" field if the given value is not nil.
func (_c *BlockCreate) SetNillablePromptID(v *string) *BlockCreate {
	if v != nil {
		_c.SetPromptID(*v)
	}
	return _c
}

// SetType sets the "type" field.
func (_c *BlockCreate) SetType(v block.Type) *BlockCreate {
	_c.mutation.SetType(v)
	return _c
}

// SetOrder sets the "order" field.
func (_c *BlockCreate) SetOrder(v int) *BlockCreate {
	_c.mutation.SetOrder(v)
	return _c
}

// SetContent sets the "content" field.
func (_c *BlockCreate) SetContent(v string) *BlockCreate {
	_c.mutation.SetContent(v)
	return _c
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_c *BlockCreate) SetNillableContent(v *string) *BlockCreate {
	if v != nil {
		_c.SetContent(*v)
	}
	return _c
}

// SetMetadata sets the "metadata" field.
func (_c *BlockCreate) SetMetadata(v map[string]interface{}) *BlockCreate {
	_c.mutation.SetMetadata(v)
	return _c
}

// SetIsFinalized sets the "is_finalized" field.
func (_c *BlockCreate) SetIsFinalized(v bool) *BlockCreate {
	_c.mutation.SetIsFinalized(v)
	return _c
}

// SetNillableIsFinalized sets the "is_finalized" field if the given value is not nil.
func (_c *BlockCreate) SetNillableIsFinalized(v *bool) *BlockCreate {
	if v != nil {
		_c.SetIsFinalized(*v)
	}
	return _c
}

// SetCreatedAt sets the "created_at" field.
func (_c *BlockCreate) SetCreatedAt(v time.Time) *BlockCreate {
	_c.mutation.SetCreatedAt(v)
	return _c
}

// SetNillableCreatedAt sets the "created_at" field if the given value is not nil.
func (_c *BlockCreate) SetNillableCreatedAt(v *time.Time) *BlockCreate {
	if v != nil {
		_c.SetCreatedAt(*v)
	}
	return _c
}

// SetUpdatedAt sets the "updated_at" field.
func (_c *BlockCreate) SetUpdatedAt(v time.Time) *BlockCreate {
	_c.mutation.SetUpdatedAt(v)
	return _c
}

// SetNillableUpdatedAt sets the "updated_at" field if the given value is not nil.
func (_c *BlockCreate) SetNillableUpdatedAt(v *time.Time) *BlockCreate {
	if v != nil {
		_c.SetUpdatedAt(*v)
	}
	return _c
}

// SetID sets the "id" field.
func (_c *BlockCreate) SetID(v string) *BlockCreate {
	_c.mutation.SetID(v)
	return _c
}

// SetMessage sets the "message" edge to the Message entity.
func (_c *BlockCreate) SetMessage(v *Message) *BlockCreate {
	return _c.SetMessageID(v.ID)
}

// Mutation returns the BlockMutation object of the builder.
func (_c *BlockCreate) Mutation() *BlockMutation {
	return _c.mutation
}

// Save creates the Block in the database.
func (_c *BlockCreate) Save(ctx context.Context) (*Block, error) {
	_c.defaults()
	return withHooks(ctx, _c.sqlSave, _c.mutation, _c.hooks)
}

// SaveX calls Save and panics if Save returns an error.
func (_c *BlockCreate) SaveX(ctx context.Context) *Block {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *BlockCreate) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *BlockCreate) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_c *BlockCreate) defaults() {
	if _, ok := _c.mutation.Content(); !ok {
		v := block.DefaultContent
		_c.mutation.SetContent(v)
	}
	if _, ok := _c.mutation.IsFinalized(); !ok {
		v := block.DefaultIsFinalized
		_c.mutation.SetIsFinalized(v)
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		v := block.DefaultCreatedAt()
		_c.mutation.SetCreatedAt(v)
	}
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		v := block.DefaultUpdatedAt()
		_c.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_c *BlockCreate) check() error {
	if _, ok := _c.mutation.MessageID(); !ok {
		return &ValidationError{Name: "message_id", err: errors.New(`ent: missing required field "Block.message_id"`)}
	}
	if _, ok := _c.mutation.GetType(); !ok {
		return &ValidationError{Name: "type", err: errors.New(`ent: missing required field "Block.type"`)}
	}
	if v, ok := _c.mutation.GetType(); ok {
		if err := block.TypeValidator(v); err != nil {
			return &ValidationError{Name: "type", err: fmt.Errorf(`ent: validator failed for field "Block.type": %w`, err)}
		}
	}
	if _, ok := _c.mutation.Order(); !ok {
		return &ValidationError{Name: "order", err: errors.New(`ent: missing required field "Block.order"`)}
	}
	if _, ok := _c.mutation.Content(); !ok {
		return &ValidationError{Name: "content", err: errors.New(`ent: missing required field "Block.content"`)}
	}
	if _, ok := _c.mutation.IsFinalized(); !ok {
		return &ValidationError{Name: "is_finalized", err: errors.New(`ent: missing required field "Block.is_finalized"`)}
	}
	if _, ok := _c.mutation.CreatedAt(); !ok {
		return &ValidationError{Name: "created_at", err: errors.New(`ent: missing required field "Block.created_at"`)}
	}
	if _, ok := _c.mutation.UpdatedAt(); !ok {
		return &ValidationError{Name: "updated_at", err: errors.New(`ent: missing required field "Block.updated_at"`)}
	}
	if len(_c.mutation.MessageIDs()) == 0 {
		return &ValidationError{Name: "message", err: errors.New(`ent: missing required edge "Block.message"`)}
	}
	return nil
}

func (_c *BlockCreate) sqlSave(ctx context.Context) (*Block, error) {
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
	if _spec.ID.Value != nil {
		if id, ok := _spec.ID.Value.(string); ok {
			_node.ID = id
		} else {
			return nil, fmt.Errorf("unexpected Block.ID type: %T", _spec.ID.Value)
		}
	}
	_c.mutation.id = &_node.ID
	_c.mutation.done = true
	return _node, nil
}

func (_c *BlockCreate) createSpec() (*Block, *sqlgraph.CreateSpec) {
	var (
		_node = &Block{config: _c.config}
		_spec = sqlgraph.NewCreateSpec(block.Table, sqlgraph.NewFieldSpec(block.FieldID, field.TypeString))
	)
	if id, ok := _c.mutation.ID(); ok {
		_node.ID = id
		_spec.ID.Value = id
	}
	if value, ok := _c.mutation.PromptID(); ok {
		_spec.SetField(block.FieldPromptID, field.TypeString, value)
		_node.PromptID = &value
	}
	if value, ok := _c.mutation.GetType(); ok {
		_spec.SetField(block.FieldType, field.TypeEnum, value)
		_node.Type = value
	}
	if value, ok := _c.mutation.Order(); ok {
		_spec.SetField(block.FieldOrder, field.TypeInt, value)
		_node.Order = value
	}
	if value, ok := _c.mutation.Content(); ok {
		_spec.SetField(block.FieldContent, field.TypeString, value)
		_node.Content = value
	}
	if value, ok := _c.mutation.Metadata(); ok {
		_spec.SetField(block.FieldMetadata, field.TypeJSON, value)
		_node.Metadata = value
	}
	if value, ok := _c.mutation.IsFinalized(); ok {
		_spec.SetField(block.FieldIsFinalized, field.TypeBool, value)
		_node.IsFinalized = value
	}
	if value, ok := _c.mutation.CreatedAt(); ok {
		_spec.SetField(block.FieldCreatedAt, field.TypeTime, value)
		_node.CreatedAt = value
	}
	if value, ok := _c.mutation.UpdatedAt(); ok {
		_spec.SetField(block.FieldUpdatedAt, field.TypeTime, value)
		_node.UpdatedAt = value
	}
	if nodes := _c.mutation.MessageIDs(); len(nodes) > 0 {
		edge := &sqlgraph.EdgeSpec{
			Rel:     sqlgraph.M2O,
			Inverse: true,
			Table:   block.MessageTable,
			Columns: []string{block.MessageColumn},
			Bidi:    false,
			Target: &sqlgraph.EdgeTarget{
				IDSpec: sqlgraph.NewFieldSpec(message.FieldID, field.TypeString),
			},
		}
		for _, k := range nodes {
			edge.Target.Nodes = append(edge.Target.Nodes, k)
		}
		_node.MessageID = nodes[0]
		_spec.Edges = append(_spec.Edges, edge)
	}
	return _node, _spec
}

// BlockCreateBulk is the builder for creating many Block entities in bulk.
type BlockCreateBulk struct {
	config
	err      error
	builders []*BlockCreate
}

// Save creates the Block entities in the database.
func (_c *BlockCreateBulk) Save(ctx context.Context) ([]*Block, error) {
	if _c.err != nil {
		return nil, _c.err
	}
	specs := make([]*sqlgraph.CreateSpec, len(_c.builders))
	nodes := make([]*Block, len(_c.builders))
	mutators := make([]Mutator, len(_c.builders))
	for i := range _c.builders {
		func(i int, root context.Context) {
			builder := _c.builders[i]
			builder.defaults()
			var mut Mutator = MutateFunc(func(ctx context.Context, m Mutation) (Value, error) {
				mutation, ok := m.(*BlockMutation)
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
func (_c *BlockCreateBulk) SaveX(ctx context.Context) []*Block {
	v, err := _c.Save(ctx)
	if err != nil {
		panic(err)
	}
	return v
}

// Exec executes the query.
func (_c *BlockCreateBulk) Exec(ctx context.Context) error {
	_, err := _c.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_c *BlockCreateBulk) ExecX(ctx context.Context) {
	if err := _c.Exec(ctx); err != nil {
		panic(err)
	}
}
