// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

package auth

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// principalSeed is one row of the YAML principal table.
type principalSeed struct {
	Username    string   `koanf:"username"`
	Secret      string   `koanf:"secret"`
	Role        string   `koanf:"role"`
	DisplayName string   `koanf:"display_name"`
	Teams       []string `koanf:"teams"`
	PlayerID    string   `koanf:"player_id"`
}

// LoadPrincipalsFile installs principals from a YAML file:
//
//	principals:
//	  - username: coach_martin
//	    secret: ...
//	    role: coach
//	    display_name: Coach Martin
//	    teams: [MTL]
//
// Secrets are hashed on load; the file itself stays plaintext and must be
// protected by filesystem permissions.
func LoadPrincipalsFile(t *PrincipalTable, path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load principals file %s: %w", path, err)
	}

	var seeds []principalSeed
	if err := k.Unmarshal("principals", &seeds); err != nil {
		return fmt.Errorf("failed to unmarshal principals file %s: %w", path, err)
	}
	if len(seeds) == 0 {
		return fmt.Errorf("principals file %s contains no principals", path)
	}

	for _, seed := range seeds {
		if err := t.Add(seed.Username, seed.Secret, seed.Role, seed.DisplayName, seed.Teams, seed.PlayerID); err != nil {
			return fmt.Errorf("principal %q: %w", seed.Username, err)
		}
	}
	return nil
}
