// Package permanent computes matrix permanents — the scattering
// amplitude kernel for linear-optical Fock states — via the Ryser and
// Glynn algorithms, plus the Clifford–Clifford sub-permanent variant
// used to batch the n+1 minors of an (n+1)×n matrix.
package permanent

import "github.com/pkg/errors"

// ErrInvalidArgument covers a nil/empty matrix, a non-square shape, the
// wrong row count for sub-permanents, or an integer Glynn request.
var ErrInvalidArgument = errors.New("invalid argument")
