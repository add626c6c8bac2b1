// Package sync implements the resumable chunked synchronization engine:
// one call to Step processes exactly one source product and one bounded
// chunk of its variation combinations, derived entirely from the client-
// held cursor. The server keeps no session state between steps.
package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/cartbridge/backend/internal/domain/catalog"
	"github.com/cartbridge/backend/internal/domain/shared"
	"github.com/cartbridge/backend/internal/domain/source"
	syncdom "github.com/cartbridge/backend/internal/domain/sync"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultChunkSize bounds how many variations one step materializes.
const DefaultChunkSize = 20

// Service is the sync step function: a pure function of the cursor over the
// current source and target state.
type Service struct {
	reader     source.Reader
	products   catalog.ProductRepository
	attributes catalog.AttributeRepository
	variations catalog.VariationRepository
	media      MediaImporter
	chunkSize  int
	logger     *zap.Logger
}

// NewService creates the step service. media may be nil to disable image
// import; chunkSize <= 0 falls back to DefaultChunkSize.
func NewService(
	reader source.Reader,
	products catalog.ProductRepository,
	attributes catalog.AttributeRepository,
	variations catalog.VariationRepository,
	media MediaImporter,
	chunkSize int,
	logger *zap.Logger,
) *Service {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		reader:     reader,
		products:   products,
		attributes: attributes,
		variations: variations,
		media:      media,
		chunkSize:  chunkSize,
		logger:     logger,
	}
}

// ProductCount reports how many distinct source products declare at least
// one option.
func (s *Service) ProductCount(ctx context.Context) (int, error) {
	return s.reader.CountProductsWithOptions(ctx)
}

// Step executes one bounded unit of work at the given cursor and reports
// where the client should point its cursor next.
func (s *Service) Step(ctx context.Context, cursor syncdom.Cursor) (*syncdom.StepResult, error) {
	if err := cursor.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	externalID, err := s.reader.ProductIDAtRank(ctx, cursor.ProductOffset)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &syncdom.StepResult{
				State:   syncdom.StateNoMoreProducts,
				Message: "No more products",
			}, nil
		}
		return nil, err
	}

	total, err := s.reader.CountProductsWithOptions(ctx)
	if err != nil {
		return nil, err
	}

	out, err := s.processProduct(ctx, externalID, cursor.VariationOffset)
	if err != nil {
		s.logger.Error("sync step failed",
			zap.Int64("external_id", externalID),
			zap.Int("product_offset", cursor.ProductOffset),
			zap.Int("variation_offset", cursor.VariationOffset),
			zap.Error(err))
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		// The operator sees the failure text, not a generic 500.
		return nil, shared.NewStepFailure(err.Error())
	}

	result := &syncdom.StepResult{
		State:             out.state,
		Message:           out.message,
		HasMoreVariations: out.hasMoreVariations,
	}
	if out.hasMoreVariations {
		result.Next = cursor.WithVariationOffset(out.nextVariationOffset)
		result.HasMoreProducts = true
	} else {
		result.Next = cursor.NextProduct()
		result.HasMoreProducts = cursor.ProductOffset+1 < total
	}

	s.logger.Info("sync step complete",
		zap.Int64("external_id", externalID),
		zap.String("state", string(result.State)),
		zap.String("next_cursor", result.Next.String()))

	return result, nil
}

// productOutcome is the per-product slice of a step result, before cursor
// arithmetic.
type productOutcome struct {
	state               syncdom.StepState
	message             string
	hasMoreVariations   bool
	nextVariationOffset int
}

// processProduct runs the per-product pipeline: resolve, sync simple
// fields, map options, register attributes, materialize one chunk.
func (s *Service) processProduct(ctx context.Context, externalID int64, variationOffset int) (*productOutcome, error) {
	src, err := s.reader.ProductByID(ctx, externalID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Deleted from the source since the rank was computed: nothing
			// to do, the cursor advances past it.
			return &productOutcome{
				state:   syncdom.StateProductHasNoOptions,
				message: fmt.Sprintf("Source product #%d not found", externalID),
			}, nil
		}
		return nil, err
	}

	product, err := s.resolveProduct(ctx, src)
	if err != nil {
		return nil, err
	}

	if err := s.syncProductDetails(ctx, product, src); err != nil {
		return nil, err
	}

	options, err := s.reader.OptionsByProductID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	optionMap := buildOptionMap(options)
	if optionMap.Len() == 0 {
		return &productOutcome{
			state:   syncdom.StateProductHasNoOptions,
			message: fmt.Sprintf("No options for product #%d", externalID),
		}, nil
	}

	bindings, err := s.registerAttributes(ctx, product, optionMap)
	if err != nil {
		return nil, err
	}

	chunk, err := s.materializeChunk(ctx, product, optionMap, bindings, variationOffset)
	if err != nil {
		return nil, err
	}

	out := &productOutcome{
		hasMoreVariations:   chunk.hasMore,
		nextVariationOffset: chunk.nextOffset,
	}
	if chunk.hasMore {
		out.state = syncdom.StateVariationsInProgress
		out.message = fmt.Sprintf("Variations %d-%d of %d done for product #%d",
			variationOffset, chunk.nextOffset-1, chunk.total, externalID)
	} else {
		out.state = syncdom.StateProductComplete
		out.nextVariationOffset = 0
		out.message = fmt.Sprintf("All %d variations done for product #%d", chunk.total, externalID)
	}
	return out, nil
}

// buildOptionMap converts the source options into the ordered option map
// that drives combination generation. Source order is preserved.
func buildOptionMap(options []source.Option) *syncdom.OptionMap {
	m := syncdom.NewOptionMap()
	for _, opt := range options {
		values := syncdom.OptionValues{
			Values:      make([]string, 0, len(opt.Values)),
			PriceDeltas: make(map[string]decimal.Decimal, len(opt.Values)),
		}
		for _, v := range opt.Values {
			values.Values = append(values.Values, v.Name)
			values.PriceDeltas[v.Name] = v.PriceDelta
		}
		m.Set(opt.Name, values)
	}
	return m
}
