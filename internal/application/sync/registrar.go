package sync

import (
	"context"

	"github.com/cartbridge/backend/internal/domain/catalog"
	syncdom "github.com/cartbridge/backend/internal/domain/sync"
)

// attributeBinding pairs one option (in option order) with its resolved
// global attribute.
type attributeBinding struct {
	optionName string
	attribute  *catalog.Attribute
}

// registerAttributes ensures a global attribute exists for every option and
// a term for every value, and assigns the terms to the parent product.
// Every call is a check-then-create at the repository layer, so repeating
// it (or racing an independent run) is safe; last writer wins.
func (s *Service) registerAttributes(ctx context.Context, product *catalog.Product, options *syncdom.OptionMap) ([]attributeBinding, error) {
	bindings := make([]attributeBinding, 0, options.Len())
	for _, name := range options.Names() {
		attr, err := s.attributes.EnsureAttribute(ctx, catalog.Slugify(name), name)
		if err != nil {
			return nil, err
		}

		values, _ := options.Get(name)
		for _, value := range values.Values {
			term, err := s.attributes.EnsureTerm(ctx, attr.ID, value)
			if err != nil {
				return nil, err
			}
			if err := s.attributes.AssignTermToProduct(ctx, product.ID, attr.ID, term.ID); err != nil {
				return nil, err
			}
		}

		bindings = append(bindings, attributeBinding{optionName: name, attribute: attr})
	}
	return bindings, nil
}
