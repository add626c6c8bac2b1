package dto

// StepRequest is the client-held cursor for one sync step. Both offsets
// default to zero so an empty body starts a fresh run.
type StepRequest struct {
	Offset          int `json:"offset"`
	VariationOffset int `json:"variation_offset"`
}

// StepResponse reports the outcome of one step and the cursor to send next.
type StepResponse struct {
	Message           string `json:"message"`
	HasMoreVariations bool   `json:"has_more_variations"`
	VariationOffset   int    `json:"variation_offset"`
	Offset            int    `json:"offset"`
	HasMoreProducts   bool   `json:"has_more_products"`
}

// StatusResponse reports the sync-relevant size of the source catalog.
type StatusResponse struct {
	ProductCount int `json:"product_count"`
}
