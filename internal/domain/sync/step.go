package sync

// StepState classifies the outcome of one sync step.
type StepState string

const (
	// StateNoMoreProducts is terminal: the product offset is past the last
	// source product with options.
	StateNoMoreProducts StepState = "no_more_products"
	// StateProductHasNoOptions completes a product that declares no options
	// (or whose source row vanished) in a single step.
	StateProductHasNoOptions StepState = "product_has_no_options"
	// StateVariationsInProgress means more chunks remain for this product.
	StateVariationsInProgress StepState = "variations_in_progress"
	// StateProductComplete means the last chunk of this product was written.
	StateProductComplete StepState = "product_complete"
)

// StepResult is the outcome of one step: what happened, where the client
// should point its cursor next, and whether anything remains.
type StepResult struct {
	State             StepState
	Message           string
	Next              Cursor
	HasMoreVariations bool
	HasMoreProducts   bool
}
