package attribute

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// UIComponent controls how an attribute is edited and how values are validated
type UIComponent string

const (
	UIComponentSelect      UIComponent = "select"
	UIComponentMultivalue  UIComponent = "multivalue"
	UIComponentUnit        UIComponent = "unit"
	UIComponentToggle      UIComponent = "toggle"
	UIComponentTextArea    UIComponent = "text_area"
	UIComponentColorPicker UIComponent = "color_picker"
)

// IsValid checks if the component is a known UIComponent
func (c UIComponent) IsValid() bool {
	switch c {
	case UIComponentSelect, UIComponentMultivalue, UIComponentUnit,
		UIComponentToggle, UIComponentTextArea, UIComponentColorPicker:
		return true
	}
	return false
}

// hasPossibleValues reports whether values are restricted to the possible values list
func (c UIComponent) hasPossibleValues() bool {
	return c == UIComponentSelect || c == UIComponentMultivalue
}

// PossibleValue is one allowed value of a select or multivalue attribute
type PossibleValue struct {
	ID       uuid.UUID
	Value    string
	Rank     int
	Metadata map[string]any
}

// Attribute describes a product property defined by the marketplace admin
type Attribute struct {
	shared.BaseAggregateRoot
	Name               string
	Handle             string
	Description        string
	IsRequired         bool
	IsFilterable       bool
	UIComponent        UIComponent
	PossibleValues     []PossibleValue
	ProductCategoryIDs []uuid.UUID
}

// NewAttribute creates an attribute
func NewAttribute(name, handle string, component UIComponent) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.InvalidArgument("Attribute name is required")
	}
	if !component.IsValid() {
		return nil, shared.InvalidArgument("Invalid ui_component: %s", component)
	}
	if handle = shared.Slugify(handle); handle == "" {
		handle = shared.Slugify(name)
	}
	if handle == "" {
		return nil, shared.InvalidArgument("Attribute handle cannot be derived from name %q", name)
	}
	return &Attribute{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Handle:            handle,
		UIComponent:       component,
	}, nil
}

// AttributeUpdate carries optional attribute changes
type AttributeUpdate struct {
	Name               *string
	Description        *string
	IsRequired         *bool
	IsFilterable       *bool
	ProductCategoryIDs *[]uuid.UUID
}

// Update applies a partial update to the attribute
func (a *Attribute) Update(u AttributeUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return shared.InvalidArgument("Attribute name cannot be empty")
		}
		a.Name = name
	}
	if u.Description != nil {
		a.Description = *u.Description
	}
	if u.IsRequired != nil {
		a.IsRequired = *u.IsRequired
	}
	if u.IsFilterable != nil {
		a.IsFilterable = *u.IsFilterable
	}
	if u.ProductCategoryIDs != nil {
		a.ProductCategoryIDs = slices.Clone(*u.ProductCategoryIDs)
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// AddPossibleValue appends an allowed value; values are unique case-insensitively
func (a *Attribute) AddPossibleValue(value string, rank int, metadata map[string]any) (*PossibleValue, error) {
	if !a.UIComponent.hasPossibleValues() {
		return nil, shared.NotAllowed("Attribute %s with ui_component %s does not accept possible values", a.Handle, a.UIComponent)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, shared.InvalidArgument("Possible value cannot be empty")
	}
	if strings.Contains(value, ",") && a.UIComponent == UIComponentMultivalue {
		return nil, shared.InvalidArgument("Multivalue options cannot contain commas")
	}
	for _, pv := range a.PossibleValues {
		if strings.EqualFold(pv.Value, value) {
			return nil, shared.Duplicate("Possible value %q already exists on attribute %s", value, a.Handle)
		}
	}
	pv := PossibleValue{ID: uuid.New(), Value: value, Rank: rank, Metadata: metadata}
	a.PossibleValues = append(a.PossibleValues, pv)
	slices.SortStableFunc(a.PossibleValues, func(x, y PossibleValue) int { return x.Rank - y.Rank })
	a.Touch()
	a.IncrementVersion()
	return &pv, nil
}

// RemovePossibleValue deletes an allowed value by id
func (a *Attribute) RemovePossibleValue(valueID uuid.UUID) error {
	idx := slices.IndexFunc(a.PossibleValues, func(pv PossibleValue) bool { return pv.ID == valueID })
	if idx < 0 {
		return shared.NotFound("AttributePossibleValue", valueID)
	}
	a.PossibleValues = slices.Delete(a.PossibleValues, idx, idx+1)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// IsGlobal reports whether the attribute applies to every category
func (a *Attribute) IsGlobal() bool {
	return len(a.ProductCategoryIDs) == 0
}

// AppliesTo reports whether the attribute applies to products in the category
func (a *Attribute) AppliesTo(categoryID *uuid.UUID) bool {
	if a.IsGlobal() {
		return true
	}
	if categoryID == nil {
		return false
	}
	return slices.Contains(a.ProductCategoryIDs, *categoryID)
}

// ValidateValue checks a raw value against the attribute's ui_component rules
func (a *Attribute) ValidateValue(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", shared.InvalidArgument("Value for attribute %s cannot be empty", a.Handle)
	}
	switch a.UIComponent {
	case UIComponentSelect:
		pv, ok := a.findPossibleValue(value)
		if !ok {
			return "", shared.InvalidArgument("Value %q is not a possible value of attribute %s", value, a.Handle)
		}
		return pv, nil
	case UIComponentMultivalue:
		parts := strings.Split(value, ",")
		normalized := make([]string, 0, len(parts))
		for _, part := range parts {
			pv, ok := a.findPossibleValue(strings.TrimSpace(part))
			if !ok {
				return "", shared.InvalidArgument("Value %q is not a possible value of attribute %s", strings.TrimSpace(part), a.Handle)
			}
			if !slices.Contains(normalized, pv) {
				normalized = append(normalized, pv)
			}
		}
		return strings.Join(normalized, ","), nil
	case UIComponentToggle:
		lower := strings.ToLower(value)
		if lower != "true" && lower != "false" {
			return "", shared.InvalidArgument("Value for toggle attribute %s must be true or false", a.Handle)
		}
		return lower, nil
	}
	return value, nil
}

func (a *Attribute) findPossibleValue(value string) (string, bool) {
	for _, pv := range a.PossibleValues {
		if strings.EqualFold(pv.Value, value) {
			return pv.Value, true
		}
	}
	return "", false
}

// Value is the value of one attribute for one product
type Value struct {
	shared.BaseEntity
	ProductID   uuid.UUID
	AttributeID uuid.UUID
	Value       string
}

// ProductAttributes validates a full set of raw values for a product against
// the attributes applicable to its category. Keys of raw are attribute ids.
// Returns the normalized values to persist.
func ProductAttributes(productID uuid.UUID, categoryID *uuid.UUID, attributes []Attribute, raw map[uuid.UUID]string) ([]Value, error) {
	byID := make(map[uuid.UUID]*Attribute, len(attributes))
	for i := range attributes {
		byID[attributes[i].ID] = &attributes[i]
	}

	values := make([]Value, 0, len(raw))
	for attrID, rawValue := range raw {
		attr, ok := byID[attrID]
		if !ok {
			return nil, shared.InvalidArgument("Unknown attribute %s", attrID)
		}
		if !attr.AppliesTo(categoryID) {
			return nil, shared.InvalidArgument("Attribute %s does not apply to the product's category", attr.Handle)
		}
		normalized, err := attr.ValidateValue(rawValue)
		if err != nil {
			return nil, err
		}
		values = append(values, Value{
			BaseEntity:  shared.NewBaseEntity(),
			ProductID:   productID,
			AttributeID: attrID,
			Value:       normalized,
		})
	}

	for i := range attributes {
		attr := &attributes[i]
		if attr.IsRequired && attr.AppliesTo(categoryID) {
			if _, ok := raw[attr.ID]; !ok {
				return nil, shared.InvalidArgument("Attribute %s is required", attr.Handle)
			}
		}
	}

	slices.SortFunc(values, func(x, y Value) int { return strings.Compare(x.AttributeID.String(), y.AttributeID.String()) })
	return values, nil
}
