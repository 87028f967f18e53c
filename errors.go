package vectorscan

import "github.com/mtremer/vectorscan/truffle"

// ErrNotEncodable is returned when fallback is disabled and the class has no
// nibble-table encoding. It is the same value as truffle.ErrNotEncodable.
var ErrNotEncodable = truffle.ErrNotEncodable
