// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota + 1
	PluginOptionTypeBool
	PluginOptionTypeInt
	PluginOptionTypeUint
)

type PluginOption struct {
	Name         string
	Type         PluginOptionType
	Description  string
	DefaultValue any
	Dest         any
}

// flagName returns the command line flag name for an option, for example
// "blob-badger-data-dir"
func (p *PluginOption) flagName(entry *PluginEntry) string {
	return fmt.Sprintf(
		"%s-%s-%s",
		PluginTypeName(entry.Type),
		entry.Name,
		p.Name,
	)
}

// envName returns the environment variable name for an option, for
// example GOVREALM_BLOB_BADGER_DATA_DIR
func (p *PluginOption) envName(prefix string, entry *PluginEntry) string {
	name := fmt.Sprintf(
		"%s_%s_%s_%s",
		prefix,
		PluginTypeName(entry.Type),
		entry.Name,
		p.Name,
	)
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// AddToFlagSet registers the option as a flag bound to its destination
func (p *PluginOption) AddToFlagSet(fs *pflag.FlagSet, entry *PluginEntry) error {
	name := p.flagName(entry)
	switch p.Type {
	case PluginOptionTypeString:
		dest, ok := p.Dest.(*string)
		if !ok {
			return fmt.Errorf("invalid destination type for option %s: expected *string", p.Name)
		}
		def, _ := p.DefaultValue.(string)
		fs.StringVar(dest, name, def, p.Description)
	case PluginOptionTypeBool:
		dest, ok := p.Dest.(*bool)
		if !ok {
			return fmt.Errorf("invalid destination type for option %s: expected *bool", p.Name)
		}
		def, _ := p.DefaultValue.(bool)
		fs.BoolVar(dest, name, def, p.Description)
	case PluginOptionTypeInt:
		dest, ok := p.Dest.(*int)
		if !ok {
			return fmt.Errorf("invalid destination type for option %s: expected *int", p.Name)
		}
		def, _ := p.DefaultValue.(int)
		fs.IntVar(dest, name, def, p.Description)
	case PluginOptionTypeUint:
		dest, ok := p.Dest.(*uint64)
		if !ok {
			return fmt.Errorf("invalid destination type for option %s: expected *uint64", p.Name)
		}
		def, _ := p.DefaultValue.(uint64)
		fs.Uint64Var(dest, name, def, p.Description)
	default:
		return fmt.Errorf("unknown plugin option type %d for option %s", p.Type, p.Name)
	}
	return nil
}

// setValue performs a type-checked assignment into Dest. Strings are
// parsed for non-string options so values from the environment work.
func (p *PluginOption) setValue(value any) error {
	if p.Dest == nil {
		return fmt.Errorf("nil destination for option %s", p.Name)
	}
	switch p.Type {
	case PluginOptionTypeString:
		dest, ok := p.Dest.(*string)
		if !ok || dest == nil {
			return fmt.Errorf("invalid destination type for option %s: expected *string", p.Name)
		}
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid type for option %s: expected string", p.Name)
		}
		*dest = v
	case PluginOptionTypeBool:
		dest, ok := p.Dest.(*bool)
		if !ok || dest == nil {
			return fmt.Errorf("invalid destination type for option %s: expected *bool", p.Name)
		}
		switch v := value.(type) {
		case bool:
			*dest = v
		case string:
			tmp, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for option %s: %w", p.Name, err)
			}
			*dest = tmp
		default:
			return fmt.Errorf("invalid type for option %s: expected bool", p.Name)
		}
	case PluginOptionTypeInt:
		dest, ok := p.Dest.(*int)
		if !ok || dest == nil {
			return fmt.Errorf("invalid destination type for option %s: expected *int", p.Name)
		}
		switch v := value.(type) {
		case int:
			*dest = v
		case string:
			tmp, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for option %s: %w", p.Name, err)
			}
			*dest = tmp
		default:
			return fmt.Errorf("invalid type for option %s: expected int", p.Name)
		}
	case PluginOptionTypeUint:
		dest, ok := p.Dest.(*uint64)
		if !ok || dest == nil {
			return fmt.Errorf("invalid destination type for option %s: expected *uint64", p.Name)
		}
		switch v := value.(type) {
		case uint64:
			*dest = v
		case int:
			if v < 0 {
				return fmt.Errorf("invalid value for option %s: negative int", p.Name)
			}
			*dest = uint64(v)
		case string:
			tmp, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for option %s: %w", p.Name, err)
			}
			*dest = tmp
		default:
			return fmt.Errorf("invalid type for option %s: expected uint64 or int", p.Name)
		}
	default:
		return fmt.Errorf("unknown plugin option type %d for option %s", p.Type, p.Name)
	}
	return nil
}

// SetPluginOption sets the value of a named option for a plugin entry. An
// unknown option name is ignored so callers can set options such as
// data-dir without knowing whether a plugin supports them. It must be
// called before the plugin is instantiated.
func SetPluginOption(
	pluginType PluginType,
	pluginName string,
	optionName string,
	value any,
) error {
	entry, ok := getPluginEntry(pluginType, pluginName)
	if !ok {
		return &PluginNotFoundError{Type: pluginType, Name: pluginName}
	}
	for i := range entry.Options {
		opt := &entry.Options[i]
		if opt.Name == optionName {
			return opt.setValue(value)
		}
	}
	return nil
}

// PopulateCmdlineOptions adds flags for the options of every registered plugin
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	pluginEntriesMutex.RLock()
	defer pluginEntriesMutex.RUnlock()
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for j := range entry.Options {
			if err := entry.Options[j].AddToFlagSet(fs, entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessEnvVars applies plugin options found in the environment
func ProcessEnvVars(prefix string) error {
	pluginEntriesMutex.RLock()
	defer pluginEntriesMutex.RUnlock()
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for j := range entry.Options {
			opt := &entry.Options[j]
			value, ok := os.LookupEnv(opt.envName(prefix, entry))
			if !ok {
				continue
			}
			if err := opt.setValue(value); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessConfig applies plugin options from a config file. The map is
// keyed by plugin type name, then plugin name, then option name.
func ProcessConfig(pluginConfig map[string]map[string]map[string]any) error {
	for typeName, plugins := range pluginConfig {
		var pluginType PluginType
		switch typeName {
		case PluginTypeName(PluginTypeBlob):
			pluginType = PluginTypeBlob
		case PluginTypeName(PluginTypeMetadata):
			pluginType = PluginTypeMetadata
		default:
			return fmt.Errorf("unknown plugin type: %s", typeName)
		}
		for pluginName, options := range plugins {
			for optionName, value := range options {
				if err := SetPluginOption(pluginType, pluginName, optionName, value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
