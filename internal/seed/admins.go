// Package seed loads the optional admins file.
//
// Role changes require an existing admin, so the first admin has to come
// from outside the API. The operator lists external identities in a YAML
// file; anyone on the list is granted the admin role when they sign in.
// This is also the recovery path if every admin gets demoted.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// adminsFile is the on-disk shape:
//
//	admins:
//	  - "github:1234567"
//	  - "github:7654321"
type adminsFile struct {
	Admins []string `yaml:"admins"`
}

// LoadAdmins reads the YAML admins file at path and returns the listed
// external identities. A missing path returns an error; an empty list is
// fine (seeding just does nothing).
func LoadAdmins(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: reading admins file %s: %w", path, err)
	}

	var f adminsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("seed: parsing admins file %s: %w", path, err)
	}

	return f.Admins, nil
}
