// Code generated by ent, DO NOT EDIT.

package promptevent

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"github.com/parleyhq/parley/ent/predicate"
)

// ID filters vertices based on their ID field.
func ID(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldID, id))
}

// IDEQ applies the EQ predicate on the ID field.
func IDEQ(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldID, id))
}

// IDNEQ applies the NEQ predicate on the ID field.
func IDNEQ(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNEQ(FieldID, id))
}

// IDIn applies the In predicate on the ID field.
func IDIn(ids ...int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldIn(FieldID, ids...))
}

// IDNotIn applies the NotIn predicate on the ID field.
func IDNotIn(ids ...int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNotIn(FieldID, ids...))
}

// IDGT applies the GT predicate on the ID field.
func IDGT(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGT(FieldID, id))
}

// IDGTE applies the GTE predicate on the ID field.
func IDGTE(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGTE(FieldID, id))
}

// IDLT applies the LT predicate on the ID field.
func IDLT(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLT(FieldID, id))
}

// IDLTE applies the LTE predicate on the ID field.
func IDLTE(id int64) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLTE(FieldID, id))
}

// PromptID applies equality check predicate on the "prompt_id" field. It's identical to PromptIDEQ.
func PromptID(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldPromptID, v))
}

// IndexNum applies equality check predicate on the "index_num" field. It's identical to IndexNumEQ.
func IndexNum(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldIndexNum, v))
}

// Type applies equality check predicate on the "type" field. It's identical to TypeEQ.
func Type(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldType, v))
}

// CreatedAt applies equality check predicate on the "created_at" field. It's identical to CreatedAtEQ.
func CreatedAt(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldCreatedAt, v))
}

// PromptIDEQ applies the EQ predicate on the "prompt_id" field.
func PromptIDEQ(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldPromptID, v))
}

// PromptIDNEQ applies the NEQ predicate on the "prompt_id" field.
func PromptIDNEQ(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNEQ(FieldPromptID, v))
}

// PromptIDIn applies the In predicate on the "prompt_id" field.
func PromptIDIn(vs ...string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldIn(FieldPromptID, vs...))
}

// PromptIDNotIn applies the NotIn predicate on the "prompt_id" field.
func PromptIDNotIn(vs ...string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNotIn(FieldPromptID, vs...))
}

// PromptIDGT applies the GT predicate on the "prompt_id" field.
func PromptIDGT(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGT(FieldPromptID, v))
}

// PromptIDGTE applies the GTE predicate on the "prompt_id" field.
func PromptIDGTE(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGTE(FieldPromptID, v))
}

// PromptIDLT applies the LT predicate on the "prompt_id" field.
func PromptIDLT(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLT(FieldPromptID, v))
}

// PromptIDLTE applies the LTE predicate on the "prompt_id" field.
func PromptIDLTE(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLTE(FieldPromptID, v))
}

// PromptIDContains applies the Contains predicate on the "prompt_id" field.
func PromptIDContains(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldContains(FieldPromptID, v))
}

// PromptIDHasPrefix applies the HasPrefix predicate on the "prompt_id" field.
func PromptIDHasPrefix(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldHasPrefix(FieldPromptID, v))
}

// PromptIDHasSuffix applies the HasSuffix predicate on the "prompt_id" field.
func PromptIDHasSuffix(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldHasSuffix(FieldPromptID, v))
}

// PromptIDEqualFold applies the EqualFold predicate on the "prompt_id" field.
func PromptIDEqualFold(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEqualFold(FieldPromptID, v))
}

// PromptIDContainsFold applies the ContainsFold predicate on the "prompt_id" field.
func PromptIDContainsFold(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldContainsFold(FieldPromptID, v))
}

// IndexNumEQ applies the EQ predicate on the "index_num" field.
func IndexNumEQ(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldIndexNum, v))
}

// IndexNumNEQ applies the NEQ predicate on the "index_num" field.
func IndexNumNEQ(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNEQ(FieldIndexNum, v))
}

// IndexNumIn applies the In predicate on the "index_num" field.
func IndexNumIn(vs ...int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldIn(FieldIndexNum, vs...))
}

// IndexNumNotIn applies the NotIn predicate on the "index_num" field.
func IndexNumNotIn(vs ...int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNotIn(FieldIndexNum, vs...))
}

// IndexNumGT applies the GT predicate on the "index_num" field.
func IndexNumGT(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGT(FieldIndexNum, v))
}

// IndexNumGTE applies the GTE predicate on the "index_num" field.
func IndexNumGTE(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGTE(FieldIndexNum, v))
}

// IndexNumLT applies the LT predicate on the "index_num" field.
func IndexNumLT(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLT(FieldIndexNum, v))
}

// IndexNumLTE applies the LTE predicate on the "index_num" field.
func IndexNumLTE(v int) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLTE(FieldIndexNum, v))
}

// TypeEQ applies the EQ predicate on the "type" field.
func TypeEQ(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldType, v))
}

// TypeNEQ applies the NEQ predicate on the "type" field.
func TypeNEQ(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNEQ(FieldType, v))
}

// TypeIn applies the In predicate on the "type" field.
func TypeIn(vs ...string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldIn(FieldType, vs...))
}

// TypeNotIn applies the NotIn predicate on the "type" field.
func TypeNotIn(vs ...string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNotIn(FieldType, vs...))
}

// TypeGT applies the GT predicate on the "type" field.
func TypeGT(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGT(FieldType, v))
}

// TypeGTE applies the GTE predicate on the "type" field.
func TypeGTE(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGTE(FieldType, v))
}

// TypeLT applies the LT predicate on the "type" field.
func TypeLT(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLT(FieldType, v))
}

// TypeLTE applies the LTE predicate on the "type" field.
func TypeLTE(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLTE(FieldType, v))
}

// TypeContains applies the Contains predicate on the "type" field.
func TypeContains(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldContains(FieldType, v))
}

// TypeHasPrefix applies the HasPrefix predicate on the "type" field.
func TypeHasPrefix(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldHasPrefix(FieldType, v))
}

// TypeHasSuffix applies the HasSuffix predicate on the "type" field.
func TypeHasSuffix(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldHasSuffix(FieldType, v))
}

// TypeEqualFold applies the EqualFold predicate on the "type" field.
func TypeEqualFold(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEqualFold(FieldType, v))
}

// TypeContainsFold applies the ContainsFold predicate on the "type" field.
func TypeContainsFold(v string) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldContainsFold(FieldType, v))
}

// CreatedAtEQ applies the EQ predicate on the "created_at" field.
func CreatedAtEQ(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldEQ(FieldCreatedAt, v))
}

// CreatedAtNEQ applies the NEQ predicate on the "created_at" field.
func CreatedAtNEQ(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNEQ(FieldCreatedAt, v))
}

// CreatedAtIn applies the In predicate on the "created_at" field.
func CreatedAtIn(vs ...time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldIn(FieldCreatedAt, vs...))
}

// CreatedAtNotIn applies the NotIn predicate on the "created_at" field.
func CreatedAtNotIn(vs ...time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldNotIn(FieldCreatedAt, vs...))
}

// CreatedAtGT applies the GT predicate on the "created_at" field.
func CreatedAtGT(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGT(FieldCreatedAt, v))
}

// CreatedAtGTE applies the GTE predicate on the "created_at" field.
func CreatedAtGTE(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldGTE(FieldCreatedAt, v))
}

// CreatedAtLT applies the LT predicate on the "created_at" field.
func CreatedAtLT(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLT(FieldCreatedAt, v))
}

// CreatedAtLTE applies the LTE predicate on the "created_at" field.
func CreatedAtLTE(v time.Time) predicate.PromptEvent {
	return predicate.PromptEvent(sql.FieldLTE(FieldCreatedAt, v))
}

// HasPrompt applies the HasEdge predicate on the "prompt" edge.
func HasPrompt() predicate.PromptEvent {
	return predicate.PromptEvent(func(s *sql.Selector) {
		step := sqlgraph.NewStep(
			sqlgraph.From(Table, FieldID),
			sqlgraph.Edge(sqlgraph.M2O, true, PromptTable, PromptColumn),
		)
		sqlgraph.HasNeighbors(s, step)
	})
}

// HasPromptWith applies the HasEdge predicate on the "prompt" edge with a given conditions (other predicates).
func HasPromptWith(preds ...predicate.Prompt) predicate.PromptEvent {
	return predicate.PromptEvent(func(s *sql.Selector) {
		step := newPromptStep()
		sqlgraph.HasNeighborsWith(s, step, func(s *sql.Selector) {
			for _, p := range preds {
				p(s)
			}
		})
	})
}

// And groups predicates with the AND operator between them.
func And(predicates ...predicate.PromptEvent) predicate.PromptEvent {
	return predicate.PromptEvent(sql.AndPredicates(predicates...))
}

// Or groups predicates with the OR operator between them.
func Or(predicates ...predicate.PromptEvent) predicate.PromptEvent {
	return predicate.PromptEvent(sql.OrPredicates(predicates...))
}

// Not applies the not operator on the given predicate.
func Not(p predicate.PromptEvent) predicate.PromptEvent {
	return predicate.PromptEvent(sql.NotPredicates(p))
}
