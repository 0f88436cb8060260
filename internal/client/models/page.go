package models

// Page is the server-side paginated list envelope.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func (p Page[T]) Validate() error {
	if p.Count < len(p.Results) {
		return invalid("page count %d is smaller than %d results", p.Count, len(p.Results))
	}
	for i := range p.Results {
		if v, ok := any(p.Results[i]).(Validator); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// List validates a plain JSON array response.
type List[T any] []T

func (l List[T]) Validate() error {
	for i := range l {
		if v, ok := any(l[i]).(Validator); ok {
			if err := v.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
