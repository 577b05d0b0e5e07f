package commission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ReferenceLookup batch-loads display names for rule references.
// Each method receives all ids of one kind and is called at most once per
// resolution; ids that do not exist are simply absent from the result.
type ReferenceLookup interface {
	SellerNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	ProductTypeValues(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	CategoryNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// SiteDisplay is the display label of site-wide rules
const SiteDisplay = "Site"

// ResolveReferences returns a display label per rule id. Ids are grouped by
// kind and fetched with one lookup call per kind. Unknown or unparsable
// references fall back to the raw reference id.
func ResolveReferences(ctx context.Context, rules []Rule, lookup ReferenceLookup) (map[uuid.UUID]string, error) {
	parsed := make(map[uuid.UUID]ParsedReference, len(rules))
	sellerIDs := newIDSet()
	typeIDs := newIDSet()
	categoryIDs := newIDSet()

	for _, r := range rules {
		ref, err := ParseReference(r.Reference, r.ReferenceID)
		if err != nil {
			continue
		}
		parsed[r.ID] = ref
		sellerIDs.add(ref.SellerID)
		typeIDs.add(ref.TypeID)
		categoryIDs.add(ref.CategoryID)
	}

	sellers, err := fetch(ctx, sellerIDs, lookup.SellerNames)
	if err != nil {
		return nil, fmt.Errorf("resolve seller references: %w", err)
	}
	types, err := fetch(ctx, typeIDs, lookup.ProductTypeValues)
	if err != nil {
		return nil, fmt.Errorf("resolve product type references: %w", err)
	}
	categories, err := fetch(ctx, categoryIDs, lookup.CategoryNames)
	if err != nil {
		return nil, fmt.Errorf("resolve product category references: %w", err)
	}

	labelOf := func(names map[uuid.UUID]string, id *uuid.UUID) string {
		if name, ok := names[*id]; ok && name != "" {
			return name
		}
		return id.String()
	}

	display := make(map[uuid.UUID]string, len(rules))
	for _, r := range rules {
		ref, ok := parsed[r.ID]
		if !ok {
			display[r.ID] = r.ReferenceID
			continue
		}
		switch r.Reference {
		case ReferenceSite:
			display[r.ID] = SiteDisplay
		case ReferenceSeller:
			display[r.ID] = labelOf(sellers, ref.SellerID)
		case ReferenceProductType:
			display[r.ID] = labelOf(types, ref.TypeID)
		case ReferenceProductCategory:
			display[r.ID] = labelOf(categories, ref.CategoryID)
		case ReferenceSellerProductType:
			display[r.ID] = labelOf(sellers, ref.SellerID) + " / " + labelOf(types, ref.TypeID)
		case ReferenceSellerProductCategory:
			display[r.ID] = labelOf(sellers, ref.SellerID) + " / " + labelOf(categories, ref.CategoryID)
		}
	}
	return display, nil
}

type idSet struct {
	seen map[uuid.UUID]struct{}
	ids  []uuid.UUID
}

func newIDSet() *idSet {
	return &idSet{seen: make(map[uuid.UUID]struct{})}
}

func (s *idSet) add(id *uuid.UUID) {
	if id == nil {
		return
	}
	if _, ok := s.seen[*id]; ok {
		return
	}
	s.seen[*id] = struct{}{}
	s.ids = append(s.ids, *id)
}

func fetch(ctx context.Context, set *idSet, fn func(context.Context, []uuid.UUID) (map[uuid.UUID]string, error)) (map[uuid.UUID]string, error) {
	if len(set.ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}
	return fn(ctx, set.ids)
}
