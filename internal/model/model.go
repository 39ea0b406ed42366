// Package model holds typed views of the Device Repository documents.
package model

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// VendorsIndex is the root vendor/index.yaml document.
type VendorsIndex struct {
	Vendors []VendorReference `yaml:"vendors"`
}

// VendorReference points to the optional per-vendor index by identifier.
type VendorReference struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Draft bool   `yaml:"draft,omitempty"`
}

// VendorIndex is a vendor/<vendor-id>/index.yaml document.
type VendorIndex struct {
	EndDevices []string `yaml:"endDevices"`
}

// EndDevice is a vendor/<vendor-id>/<device-id>.yaml document.
type EndDevice struct {
	Name             string            `yaml:"name"`
	Description      string            `yaml:"description,omitempty"`
	FirmwareVersions []FirmwareVersion `yaml:"firmwareVersions"`
}

// FirmwareVersion maps regions to the profile used by that firmware.
type FirmwareVersion struct {
	Version  string         `yaml:"version"`
	Profiles RegionProfiles `yaml:"profiles"`
}

// ProfileReference identifies an end device profile in the vendor's folder.
type ProfileReference struct {
	ID               string `yaml:"id"`
	Codec            string `yaml:"codec,omitempty"`
	LoRaWANCertified bool   `yaml:"lorawanCertified,omitempty"`
}

// RegionProfile is one entry of a firmware version's profiles mapping.
type RegionProfile struct {
	Region  string
	Profile ProfileReference
}

// RegionProfiles keeps the profiles mapping in document order.
type RegionProfiles []RegionProfile

// UnmarshalYAML decodes a region to profile mapping, preserving key order.
func (p *RegionProfiles) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: profiles must be a mapping", value.Line)
	}
	out := make(RegionProfiles, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var ref ProfileReference
		if err := val.Decode(&ref); err != nil {
			return fmt.Errorf("region %s: %w", key.Value, err)
		}
		out = append(out, RegionProfile{Region: key.Value, Profile: ref})
	}
	*p = out
	return nil
}

// Regions returns the region codes in document order.
func (p RegionProfiles) Regions() []string {
	regions := make([]string, len(p))
	for i, rp := range p {
		regions[i] = rp.Region
	}
	return regions
}
