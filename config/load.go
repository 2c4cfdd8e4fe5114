package config

import (
	"github.com/BurntSushi/toml"
)

// Load reads configurations from a toml file.
func Load(path string) (*Configs, error) {
	var configs Configs
	if _, err := toml.DecodeFile(path, &configs); err != nil {
		return nil, err
	}

	return &configs, nil
}
