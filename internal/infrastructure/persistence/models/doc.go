// Package models contains GORM persistence models for the marketplace tables.
// Models are kept apart from domain aggregates so the domain layer stays free
// of ORM tags; each model converts with ToDomain and a *FromDomain constructor.
//
// Child collections (order line items, price list prices, payout reversals,
// return lines, wishlist items, attribute possible values) live in their own
// tables and are replaced wholesale by the owning repository on save.
package models
