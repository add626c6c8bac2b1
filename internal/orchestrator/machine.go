package orchestrator

import "github.com/cartbridge/backend/internal/interfaces/http/dto"

// Machine tracks the client-held cursor across step responses. The server
// computes the next cursor; the machine only decides whether to keep going.
type Machine struct {
	cursor dto.StepRequest
	done   bool
}

// NewMachine starts a run at the given product offset (0-based) with the
// variation offset at zero.
func NewMachine(startOffset int) *Machine {
	return &Machine{cursor: dto.StepRequest{Offset: startOffset}}
}

// Cursor returns the request to send for the next step.
func (m *Machine) Cursor() dto.StepRequest {
	return m.cursor
}

// Done reports whether the run has consumed every product.
func (m *Machine) Done() bool {
	return m.done
}

// Advance folds one step response into the cursor. It returns true while
// more steps remain.
func (m *Machine) Advance(resp *dto.StepResponse) bool {
	m.cursor = dto.StepRequest{
		Offset:          resp.Offset,
		VariationOffset: resp.VariationOffset,
	}
	// More variations on the current product always means more work, even
	// when this is the last product.
	m.done = !resp.HasMoreVariations && !resp.HasMoreProducts
	return !m.done
}
