package cli

import "fmt"

// build holds metadata injected at link time through main.
var build = struct {
	version, commit, date string
}{"dev", "unknown", "unknown"}

// SetBuildInfo records build metadata. Empty values keep the defaults.
func SetBuildInfo(version, commit, date string) {
	for _, f := range []struct {
		dst *string
		val string
	}{
		{&build.version, version},
		{&build.commit, commit},
		{&build.date, date},
	} {
		if f.val != "" {
			*f.dst = f.val
		}
	}
}

func buildInfo() string {
	return fmt.Sprintf("validate %s (commit %s, built %s)", build.version, build.commit, build.date)
}
