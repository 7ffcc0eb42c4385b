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
	"github.com/parleyhq/parley/ent/block"
	"github.com/parleyhq/parley/ent/predicate"
)

// BlockUpdate is the builder for updating Block entities.
type BlockUpdate struct {
	config
	hooks    []Hook
	mutation *BlockMutation
}

// Where appends a list predicates to the BlockUpdate builder.
func (_u *BlockUpdate) Where(ps ...predicate.Block) *BlockUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetOrder sets the "order" field.
func (_u *BlockUpdate) SetOrder(v int) *BlockUpdate {
	_u.mutation.ResetOrder()
	_u.mutation.SetOrder(v)
	return _u
}

// SetNillableOrder sets the "order" field if the given value is not nil.
func (_u *BlockUpdate) SetNillableOrder(v *int) *BlockUpdate {
	if v != nil {
		_u.SetOrder(*v)
	}
	return _u
}

// AddOrder adds value to the "order" field.
func (_u *BlockUpdate) AddOrder(v int) *BlockUpdate {
	_u.mutation.AddOrder(v)
	return _u
}

// SetContent sets the "content" field.
func (_u *BlockUpdate) SetContent(v string) *BlockUpdate {
	_u.mutation.SetContent(v)
	return _u
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_u *BlockUpdate) SetNillableContent(v *string) *BlockUpdate {
	if v != nil {
		_u.SetContent(*v)
	}
	return _u
}

// SetMetadata sets the "metadata" field.
func (_u *BlockUpdate) SetMetadata(v map[string]interface{}) *BlockUpdate {
	_u.mutation.SetMetadata(v)
	return _u
}

// ClearMetadata clears the value of the "metadata" field.
func (_u *BlockUpdate) ClearMetadata() *BlockUpdate {
	_u.mutation.ClearMetadata()
	return _u
}

// SetIsFinalized sets the "is_finalized" field.
func (_u *BlockUpdate) SetIsFinalized(v bool) *BlockUpdate {
	_u.mutation.SetIsFinalized(v)
	return _u
}

// SetNillableIsFinalized sets the "is_finalized" field if the given value is not nil.
func (_u *BlockUpdate) SetNillableIsFinalized(v *bool) *BlockUpdate {
	if v != nil {
		_u.SetIsFinalized(*v)
	}
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *BlockUpdate) SetUpdatedAt(v time.Time) *BlockUpdate {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// Mutation returns the BlockMutation object of the builder.
func (_u *BlockUpdate) Mutation() *BlockMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *BlockUpdate) Save(ctx context.Context) (int, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *BlockUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *BlockUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *BlockUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *BlockUpdate) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := block.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *BlockUpdate) check() error {
	if _u.mutation.MessageCleared() && len(_u.mutation.MessageIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Block.message"`)
	}
	return nil
}

func (_u *BlockUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(block.Table, block.Columns, sqlgraph.NewFieldSpec(block.FieldID, field.TypeString))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if _u.mutation.PromptIDCleared() {
		_spec.ClearField(block.FieldPromptID, field.TypeString)
	}
	if value, ok := _u.mutation.Order(); ok {
		_spec.SetField(block.FieldOrder, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedOrder(); ok {
		_spec.AddField(block.FieldOrder, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Content(); ok {
		_spec.SetField(block.FieldContent, field.TypeString, value)
	}
	if value, ok := _u.mutation.Metadata(); ok {
		_spec.SetField(block.FieldMetadata, field.TypeJSON, value)
	}
	if _u.mutation.MetadataCleared() {
		_spec.ClearField(block.FieldMetadata, field.TypeJSON)
	}
	if value, ok := _u.mutation.IsFinalized(); ok {
		_spec.SetField(block.FieldIsFinalized, field.TypeBool, value)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(block.FieldUpdatedAt, field.TypeTime, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{block.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// BlockUpdateOne is the builder for updating a single Block entity.
type BlockUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *BlockMutation
}

// SetOrder sets the "order" field.
func (_u *BlockUpdateOne) SetOrder(v int) *BlockUpdateOne {
	_u.mutation.ResetOrder()
	_u.mutation.SetOrder(v)
	return _u
}

// SetNillableOrder sets the "order" field if the given value is not nil.
func (_u *BlockUpdateOne) SetNillableOrder(v *int) *BlockUpdateOne {
	if v != nil {
		_u.SetOrder(*v)
	}
	return _u
}

// AddOrder adds value to the "order" field.
func (_u *BlockUpdateOne) AddOrder(v int) *BlockUpdateOne {
	_u.mutation.AddOrder(v)
	return _u
}

// SetContent sets the "content" field.
func (_u *BlockUpdateOne) SetContent(v string) *BlockUpdateOne {
	_u.mutation.SetContent(v)
	return _u
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_u *BlockUpdateOne) SetNillableContent(v *string) *BlockUpdateOne {
	if v != nil {
		_u.SetContent(*v)
	}
	return _u
}

// SetMetadata sets the "metadata" field.
func (_u *BlockUpdateOne) SetMetadata(v map[string]interface{}) *BlockUpdateOne {
	_u.mutation.SetMetadata(v)
	return _u
}

// ClearMetadata clears the value of the "metadata" field.
func (_u *BlockUpdateOne) ClearMetadata() *BlockUpdateOne {
	_u.mutation.ClearMetadata()
	return _u
}

// SetIsFinalized sets the "is_finalized" field.
func (_u *BlockUpdateOne) SetIsFinalized(v bool) *BlockUpdateOne {
	_u.mutation.SetIsFinalized(v)
	return _u
}

// SetNillableIsFinalized sets the "is_finalized" field if the given value is not nil.
func (_u *BlockUpdateOne) SetNillableIsFinalized(v *bool) *BlockUpdateOne {
	if v != nil {
		_u.SetIsFinalized(*v)
	}
	return _u
}

// SetUpdatedAt sets the "updated_at" field.
func (_u *BlockUpdateOne) SetUpdatedAt(v time.Time) *BlockUpdateOne {
	_u.mutation.SetUpdatedAt(v)
	return _u
}

// Mutation returns the BlockMutation object of the builder.
func (_u *BlockUpdateOne) Mutation() *BlockMutation {
	return _u.mutation
}

// Where appends a list predicates to the BlockUpdate builder.
func (_u *BlockUpdateOne) Where(ps ...predicate.Block) *BlockUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *BlockUpdateOne) Select(field string, fields ...string) *BlockUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated Block entity.
func (_u *BlockUpdateOne) Save(ctx context.Context) (*Block, error) {
	_u.defaults()
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *BlockUpdateOne) SaveX(ctx context.Context) *Block {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *BlockUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *BlockUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// defaults sets the default values of the builder before save.
func (_u *BlockUpdateOne) defaults() {
	if _, ok := _u.mutation.UpdatedAt(); !ok {
		v := block.UpdateDefaultUpdatedAt()
		_u.mutation.SetUpdatedAt(v)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *BlockUpdateOne) check() error {
	if _u.mutation.MessageCleared() && len(_u.mutation.MessageIDs()) > 0 {
		return errors.New(`ent: clearing a required unique edge "Block.message"`)
	}
	return nil
}

func (_u *BlockUpdateOne) sqlSave(ctx context.Context) (_node *Block, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(block.Table, block.Columns, sqlgraph.NewFieldSpec(block.FieldID, field.TypeString))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "Block.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, block.FieldID)
		for _, f := range fields {
			if !block.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != block.FieldID {
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
	if _u.mutation.PromptIDCleared() {
		_spec.ClearField(block.FieldPromptID, field.TypeString)
	}
	if value, ok := _u.mutation.Order(); ok {
		_spec.SetField(block.FieldOrder, field.TypeInt, value)
	}
	if value, ok := _u.mutation.AddedOrder(); ok {
		_spec.AddField(block.FieldOrder, field.TypeInt, value)
	}
	if value, ok := _u.mutation.Content(); ok {
		_spec.SetField(block.FieldContent, field.TypeString, value)
	}
	if value, ok := _u.mutation.Metadata(); ok {
		_spec.SetField(block.FieldMetadata, field.TypeJSON, value)
	}
	if _u.mutation.MetadataCleared() {
		_spec.ClearField(block.FieldMetadata, field.TypeJSON)
	}
	if value, ok := _u.mutation.IsFinalized(); ok {
		_spec.SetField(block.FieldIsFinalized, field.TypeBool, value)
	}
	if value, ok := _u.mutation.UpdatedAt(); ok {
		_spec.SetField(block.FieldUpdatedAt, field.TypeTime, value)
	}
	_node = &Block{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{block.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
