// Package flags provides the shared flag definitions of the CLI.
package flags

import (
	"flag"

	"github.com/mehmetkoksal-w/lorawan-devices/internal/repository"
)

// AddVendorFlag adds --vendor and -v flags for the root vendors index path.
func AddVendorFlag(fs *flag.FlagSet) *string {
	vendor := fs.String("vendor", repository.DefaultVendorsIndex, "path to vendor index file")
	fs.StringVar(vendor, "v", repository.DefaultVendorsIndex, "path to vendor index file (shorthand)")
	return vendor
}
