package minio

import "github.com/input-output-hk/catalyst-forge-libs/wagon"

// Scheme is the repository URL scheme served by this backend.
const Scheme = "minio"

func init() {
	wagon.Register(Scheme, New)
}
