package model

import "fmt"

// InvalidRecipeError indicates a recipe whose theoretical weight-per-meter is
// not positive, which makes a weight-based order quantity unresolvable.
type InvalidRecipeError struct {
	SKU    string
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("invalid recipe %s: %s", e.SKU, e.Reason)
}

// MissingSelectionError indicates an order confirmation attempted without a
// primary material chosen for a structurally required layer. The order must
// not be created, not even partially.
type MissingSelectionError struct {
	Layer string
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("no material selected for %s", e.Layer)
}

// NoCompatibleInventoryError indicates the recommendation list came back
// empty for a required layer. It is advisory: the operator can still see the
// numbers but cannot confirm the order.
type NoCompatibleInventoryError struct {
	Layer string
	Type  MaterialType
}

func (e *NoCompatibleInventoryError) Error() string {
	return fmt.Sprintf("no compatible inventory for %s (type %s)", e.Layer, e.Type)
}
