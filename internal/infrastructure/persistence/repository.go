package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// outboxWriter is embedded by repositories whose aggregates record domain
// events. Events are written to the outbox in the aggregate's transaction.
type outboxWriter struct {
	outboxSaver shared.OutboxEventSaver
}

// SetOutboxEventSaver enables the transactional outbox for the repository
func (w *outboxWriter) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	w.outboxSaver = saver
}

func (w *outboxWriter) saveEvents(ctx context.Context, tx *gorm.DB, aggregate shared.AggregateRoot) error {
	events := aggregate.GetDomainEvents()
	if w.outboxSaver == nil || len(events) == 0 {
		return nil
	}
	if err := w.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// save writes model, then the optional child rows, then the aggregate's
// pending events, all in one transaction.
func (w *outboxWriter) save(ctx context.Context, db *gorm.DB, aggregate shared.AggregateRoot, model any, children func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persist(tx, model, aggregate.GetID(), aggregate.GetVersion()); err != nil {
			return err
		}
		if children != nil {
			if err := children(tx); err != nil {
				return err
			}
		}
		return w.saveEvents(ctx, tx, aggregate)
	})
}

// persist inserts the model when no row with id exists and otherwise updates
// it guarded by the optimistic version. Domain mutations bump the aggregate
// version, so a stored version that is not lower means a concurrent write.
// Associations are skipped; callers replace child rows themselves.
func persist(tx *gorm.DB, model any, id uuid.UUID, version int) error {
	var count int64
	if err := tx.Unscoped().Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return translateError(err)
	}
	if count == 0 {
		return translateError(tx.Omit(clause.Associations).Create(model).Error)
	}

	result := tx.Model(model).
		Where("id = ? AND version < ?", id, version).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConflict
	}
	return nil
}

// replaceChildren deletes the child rows of parentID and inserts rows.
// rows must be a slice of models, or empty.
func replaceChildren[T any](tx *gorm.DB, foreignKey string, parentID uuid.UUID, rows []T) error {
	var zero T
	if err := tx.Where(foreignKey+" = ?", parentID).Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return translateError(tx.Create(&rows).Error)
}

// translateError maps driver errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.WrapDomainError(shared.CodeDuplicate, "Resource already exists", err)
	default:
		return err
	}
}

// notFound maps gorm.ErrRecordNotFound to a domain not-found error for resource
func notFound(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(resource, id)
	}
	return err
}

// listQuery applies search, ordering and paging and returns the total count
// before paging.
type listQuery struct {
	sortFields   map[string]bool
	defaultSort  string
	searchFields []string
	// preload is applied to the page query only, never to the count
	preload func(db *gorm.DB) *gorm.DB
}

func (q listQuery) find(query *gorm.DB, filter shared.Filter, dest any) (int64, error) {
	if filter.Search != "" && len(q.searchFields) > 0 {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		conds := make([]string, len(q.searchFields))
		args := make([]any, len(q.searchFields))
		for i, f := range q.searchFields {
			conds[i] = "LOWER(" + f + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, q.sortFields, q.defaultSort)
	orderDir := ValidateSortOrder(filter.OrderDir)
	limit := filter.Limit
	if limit <= 0 {
		limit = shared.DefaultLimit
	}

	if q.preload != nil {
		query = q.preload(query)
	}
	err := query.Order(orderBy + " " + orderDir).
		Offset(filter.Offset).
		Limit(limit).
		Find(dest).Error
	return total, err
}

// filterUUID returns the uuid stored under key, accepting uuid and string values
func filterUUID(filter shared.Filter, key string) (uuid.UUID, bool) {
	switch v := filter.Filters[key].(type) {
	case uuid.UUID:
		return v, v != uuid.Nil
	case *uuid.UUID:
		if v != nil {
			return *v, *v != uuid.Nil
		}
	case string:
		id, err := uuid.Parse(v)
		return id, err == nil
	}
	return uuid.Nil, false
}

// filterString returns the non empty string stored under key
func filterString(filter shared.Filter, key string) (string, bool) {
	switch v := filter.Filters[key].(type) {
	case string:
		return v, v != ""
	case fmt.Stringer:
		s := v.String()
		return s, s != ""
	}
	return "", false
}

// filterTime returns the time stored under key, accepting RFC 3339 and
// date-only strings
func filterTime(filter shared.Filter, key string) (time.Time, bool) {
	switch v := filter.Filters[key].(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v != nil {
			return *v, !v.IsZero()
		}
	case string:
		for _, layout := range []string{time.RFC3339, time.DateOnly} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// filterBool returns the boolean stored under key, accepting "true"/"false"
func filterBool(filter shared.Filter, key string) (bool, bool) {
	switch v := filter.Filters[key].(type) {
	case bool:
		return v, true
	case *bool:
		if v != nil {
			return *v, true
		}
	case string:
		switch strings.ToLower(v) {
		case "true", "1":
			return true, true
		case "false", "0":
			return false, true
		}
	}
	return false, false
}

// sellerScope restricts a query to rows owned by sellerID
func sellerScope(sellerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("seller_id = ?", sellerID)
	}
}

// toDomainSlice converts loaded rows with convert, e.g. (*models.OrderModel).ToDomain
func toDomainSlice[M any, D any](rows []M, convert func(*M) *D) []D {
	out := make([]D, len(rows))
	for i := range rows {
		out[i] = *convert(&rows[i])
	}
	return out
}
