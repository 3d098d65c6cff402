/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"bytes"
	_ "embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

//go:embed core.yaml
var defaultConfig []byte

// Load reads the embedded defaults and merges the passed file on top of them, if any.
// Environment variables take precedence over both, e.g. PAPERNET_DISCOVERY_ASLOCALHOST
// overrides papernet.discovery.asLocalhost.
func Load(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaultConfig)); err != nil {
		return nil, errors.Wrap(err, "couldn't read the default configuration")
	}

	if len(configFile) != 0 {
		v.SetConfigFile(configFile)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "couldn't read the configuration file [%s]", configFile)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}
