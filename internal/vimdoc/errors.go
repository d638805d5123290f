package vimdoc

import "errors"

// ErrEmptyList is returned when the renderer encounters a list without any
// list items: the item delimiter cannot be chosen, so the conversion fails
// loudly instead of producing corrupt output.
var ErrEmptyList = errors.New("vimdoc: list contains no list items")
