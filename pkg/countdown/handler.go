package countdown

import "errors"

// Chain combines handlers into one that calls each in order. Every handler
// runs even if an earlier one fails; the errors are joined.
func Chain(handlers ...Handler) Handler {
	return func(e Event) error {
		var errs []error
		for _, h := range handlers {
			if h == nil {
				continue
			}
			if err := h(e); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
