// Package validate walks a Device Repository from its root vendors index and
// checks every reachable document against its schema.
package validate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/mehmetkoksal-w/lorawan-devices/internal/document"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/logger"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/model"
	"github.com/mehmetkoksal-w/lorawan-devices/internal/repository"
	"github.com/mehmetkoksal-w/lorawan-devices/schemas"
)

// SchemaValidator checks a decoded document against a schema definition.
// *schemas.Set implements it.
type SchemaValidator interface {
	Validate(ref schemas.Ref, instance any) error
}

// Options configures a Validator.
type Options struct {
	Schemas SchemaValidator
	// Fs defaults to the OS filesystem.
	Fs     afero.Fs
	Layout repository.Layout
	// Stdout receives progress lines, Stderr failure details.
	Stdout io.Writer
	Stderr io.Writer
}

// Validator validates a repository tree. It keeps no state between runs.
type Validator struct {
	schemas SchemaValidator
	fs      afero.Fs
	layout  repository.Layout
	stdout  io.Writer
	stderr  io.Writer
}

// Report counts what a run visited.
type Report struct {
	VendorsValidated int
	VendorsSkipped   int
	VendorsInvalid   int
	EndDevices       int
	// Profiles counts unique profiles per vendor, ProfileRefs every
	// (device, region) pair.
	Profiles    int
	ProfileRefs int
}

// FatalError stops a run. The failure details have already been written to
// Stderr when it is returned.
type FatalError struct {
	Path string
	Err  error
}

func (e *FatalError) Error() string {
	var ve *schemas.ViolationError
	if errors.As(e.Err, &ve) {
		return fmt.Sprintf("%s: invalid %s document", e.Path, ve.Ref)
	}
	var le *document.LoadError
	if errors.As(e.Err, &le) {
		return le.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// New returns a Validator for the given options.
func New(opts Options) (*Validator, error) {
	if opts.Schemas == nil {
		return nil, errors.New("validate: no schema validator")
	}
	v := &Validator{
		schemas: opts.Schemas,
		fs:      opts.Fs,
		layout:  opts.Layout,
		stdout:  opts.Stdout,
		stderr:  opts.Stderr,
	}
	if v.fs == nil {
		v.fs = afero.NewOsFs()
	}
	if v.stdout == nil {
		v.stdout = os.Stdout
	}
	if v.stderr == nil {
		v.stderr = os.Stderr
	}
	return v, nil
}

// Run validates the vendors index at rootPath and everything it references,
// depth-first and in document order. It returns a *FatalError on the first
// failure of a required document. An invalid vendor index is reported and
// its vendor skipped; a missing one is skipped silently.
func (v *Validator) Run(rootPath string) (Report, error) {
	var report Report

	var index model.VendorsIndex
	if err := v.check(rootPath, schemas.Vendors, &index); err != nil {
		if ve := violation(err); ve != nil {
			fmt.Fprintf(v.stderr, "%s is invalid\n", rootPath)
			v.printViolations(rootPath, ve)
		} else {
			fmt.Fprintln(v.stderr, err)
		}
		return report, &FatalError{Path: rootPath, Err: err}
	}
	fmt.Fprintln(v.stdout, "vendor: valid")

	for _, ref := range index.Vendors {
		if err := v.runVendor(ref.ID, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (v *Validator) runVendor(vendorID string, report *Report) error {
	path := v.layout.VendorIndex(vendorID)

	var vendor model.VendorIndex
	if err := v.check(path, schemas.Vendor, &vendor); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			logger.Debug("%s: no index at %s", vendorID, path)
			report.VendorsSkipped++
			return nil
		}
		if ve := violation(err); ve != nil {
			fmt.Fprintf(v.stderr, "%s: invalid index\n", vendorID)
			v.printViolations(path, ve)
			report.VendorsInvalid++
			return nil
		}
		fmt.Fprintf(v.stderr, "%s: index file: %v\n", vendorID, err)
		return &FatalError{Path: path, Err: err}
	}
	fmt.Fprintf(v.stdout, "%s: valid index\n", vendorID)
	report.VendorsValidated++

	seen := map[string]bool{path: true}
	profiles := make(map[string]bool)
	for _, deviceID := range vendor.EndDevices {
		if err := v.runEndDevice(vendorID, deviceID, profiles, seen, report); err != nil {
			return err
		}
	}

	v.logUnreferenced(vendorID, seen)
	return nil
}

func (v *Validator) runEndDevice(vendorID, deviceID string, profiles, seen map[string]bool, report *Report) error {
	path := v.layout.EndDevice(vendorID, deviceID)
	seen[path] = true

	var device model.EndDevice
	if err := v.check(path, schemas.EndDevice, &device); err != nil {
		if ve := violation(err); ve != nil {
			fmt.Fprintf(v.stderr, "%s: %s: invalid\n", vendorID, deviceID)
			v.printViolations(path, ve)
		} else {
			fmt.Fprintf(v.stderr, "%s: %s: %v\n", vendorID, deviceID, err)
		}
		return &FatalError{Path: path, Err: err}
	}
	fmt.Fprintf(v.stdout, "%s: %s: valid\n", vendorID, deviceID)
	report.EndDevices++

	for _, fw := range device.FirmwareVersions {
		if logger.IsDebug() {
			logger.Debug("%s: %s: firmware %s: regions %s", vendorID, deviceID, fw.Version, strings.Join(fw.Profiles.Regions(), ", "))
		}
		for _, rp := range fw.Profiles {
			profileID := rp.Profile.ID
			if profiles[profileID] {
				logger.Debug("%s: profile %s already validated", vendorID, profileID)
			} else {
				if err := v.runProfile(vendorID, deviceID, profileID, seen); err != nil {
					return err
				}
				profiles[profileID] = true
				report.Profiles++
			}
			fmt.Fprintf(v.stdout, "%s: %s: profile %s (%s) valid\n", vendorID, deviceID, profileID, rp.Region)
			report.ProfileRefs++
		}
	}
	return nil
}

func (v *Validator) runProfile(vendorID, deviceID, profileID string, seen map[string]bool) error {
	path := v.layout.Profile(vendorID, profileID)
	seen[path] = true

	var profile map[string]any
	if err := v.check(path, schemas.EndDeviceProfile, &profile); err != nil {
		if ve := violation(err); ve != nil {
			fmt.Fprintf(v.stderr, "%s: %s: profile %s invalid\n", vendorID, deviceID, profileID)
			v.printViolations(path, ve)
		} else {
			fmt.Fprintf(v.stderr, "%s: %s: profile %s: %v\n", vendorID, deviceID, profileID, err)
		}
		return &FatalError{Path: path, Err: err}
	}
	return nil
}

// check loads path, validates it against ref and decodes it into out.
func (v *Validator) check(path string, ref schemas.Ref, out any) error {
	logger.Debug("load %s as %s", path, ref)
	doc, err := document.Load(v.fs, path)
	if err != nil {
		return err
	}
	if err := v.schemas.Validate(ref, doc.Value()); err != nil {
		return err
	}
	return doc.Decode(out)
}

func (v *Validator) printViolations(path string, ve *schemas.ViolationError) {
	fmt.Fprintf(v.stderr, "  %s does not conform to %s schema\n", path, ve.Ref)
	for _, viol := range ve.Violations {
		fmt.Fprintf(v.stderr, "    %s\n", viol)
	}
}

func (v *Validator) logUnreferenced(vendorID string, seen map[string]bool) {
	unreferenced, err := v.layout.Unreferenced(v.fs, vendorID, seen)
	if err != nil {
		logger.Warn("%s: list documents: %v", vendorID, err)
		return
	}
	for _, path := range unreferenced {
		logger.Warn("%s: unreferenced document %s", vendorID, path)
	}
}

func violation(err error) *schemas.ViolationError {
	var ve *schemas.ViolationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
