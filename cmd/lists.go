// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// listKeys are the config keys holding a list that may be set from a
// single environment variable
var listKeys = []string{"methods", "api.allowedOrigins"}

// normalizeLists replaces list values given as a string with the parsed list
func normalizeLists(v *viper.Viper) error {
	for _, key := range listKeys {
		raw, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		list, err := parseList(raw)
		if err != nil {
			return fmt.Errorf("invalid value of %s: %w", key, err)
		}
		v.Set(key, list)
	}
	return nil
}

// parseList parses a JSON array of strings, e.g. ["ping","mtr"],
// or a comma separated list, e.g. ping,mtr
func parseList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	list := []string{}
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list, nil
}
