package s3

import "github.com/input-output-hk/catalyst-forge-libs/wagon"

// Scheme is the repository URL scheme served by this backend.
const Scheme = "s3"

func init() {
	wagon.Register(Scheme, New)
}
