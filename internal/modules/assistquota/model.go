// README: Monthly allowance for model-backed extraction calls.
package assistquota

import "errors"

// DefaultAllowance is the number of AI extraction calls a user gets per
// calendar month. Rule-based extraction is never metered.
const DefaultAllowance = 200

// ErrInsufficientTokens means the user's allowance for the current month
// is exhausted.
var ErrInsufficientTokens = errors.New("monthly assist allowance exhausted")
