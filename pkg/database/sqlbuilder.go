package database

import (
	"fmt"
	"strings"

	"github.com/huandu/go-sqlbuilder"
)

// Excluded references the EXCLUDED pseudo-row in upsert statements.
func Excluded(column string) any {
	return sqlbuilder.Raw(fmt.Sprintf("EXCLUDED.%s", column))
}

type InsertBuilder struct {
	*sqlbuilder.InsertBuilder
}

func NewInsertBuilder() *InsertBuilder {
	return &InsertBuilder{
		sqlbuilder.PostgreSQL.NewInsertBuilder(),
	}
}

// OnConflict appends an upsert clause and returns the update builder that
// fills it in.
func (b *InsertBuilder) OnConflict(columns ...string) *UpdateBuilder {
	ub := NewUpdateBuilder()
	b.SQL(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE %s", strings.Join(columns, ", "), b.Var(ub)))

	return ub
}

func (b *InsertBuilder) OnConflictDoNothing() *InsertBuilder {
	b.SQL("ON CONFLICT DO NOTHING")
	return b
}

func (ib *InsertBuilder) InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.InsertInto(table)}
}

func (ib *InsertBuilder) Cols(col ...string) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.Cols(col...)}
}

func (ib *InsertBuilder) Values(value ...interface{}) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.Values(value...)}
}

func (ib *InsertBuilder) Returning(col ...string) *InsertBuilder {
	return &InsertBuilder{ib.InsertBuilder.Returning(col...)}
}

type UpdateBuilder struct {
	*sqlbuilder.UpdateBuilder
}

func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{sqlbuilder.PostgreSQL.NewUpdateBuilder()}
}

type DeleteBuilder struct {
	*sqlbuilder.DeleteBuilder
}

func NewDeleteBuilder() *DeleteBuilder {
	return &DeleteBuilder{sqlbuilder.PostgreSQL.NewDeleteBuilder()}
}

type SelectBuilder struct {
	*sqlbuilder.SelectBuilder
}

func NewSelectBuilder() *SelectBuilder {
	return &SelectBuilder{sqlbuilder.PostgreSQL.NewSelectBuilder()}
}
