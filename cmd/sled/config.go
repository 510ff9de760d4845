// Copyright (c) 2025 The Sled developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sledhq/sled/sled"
)

// Config is the boot configuration of the ledger: who administers it, who
// may operate it, and which lock policies exist at startup.
type Config struct {
	Admin      string       `yaml:"admin"`
	Operators  []string     `yaml:"operators"`
	BaseURI    string       `yaml:"baseURI"`
	StakeTypes []TypeConfig `yaml:"stakeTypes"`
}

type TypeConfig struct {
	Name     string `yaml:"name"`
	LockDays uint32 `yaml:"lockDays"`
}

func loadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config file is required (--config)")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "read config")
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.WithMessage(err, "parse config")
	}
	if config.Admin == "" {
		return nil, errors.New("config: admin address is required")
	}
	return &config, nil
}

func (c *Config) adminAddress() (sled.Address, error) {
	addr, err := sled.ParseAddress(c.Admin)
	if err != nil {
		return sled.Address{}, errors.WithMessage(err, "config: admin")
	}
	return addr, nil
}

func (c *Config) operatorAddresses() ([]sled.Address, error) {
	addrs := make([]sled.Address, 0, len(c.Operators))
	for _, raw := range c.Operators {
		addr, err := sled.ParseAddress(raw)
		if err != nil {
			return nil, errors.WithMessage(err, "config: operator")
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
