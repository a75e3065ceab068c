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
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

type Plugin interface {
	Start() error
	Stop() error
}

// Instrumentable is implemented by plugins that accept a logger and a
// metrics registry before Start()
type Instrumentable interface {
	SetLogger(*slog.Logger)
	SetPromRegistry(prometheus.Registerer)
}

// ErrorPlugin is a plugin that always returns an error on Start()
type ErrorPlugin struct {
	Err error
}

func (e *ErrorPlugin) Start() error {
	return e.Err
}

func (e *ErrorPlugin) Stop() error {
	return nil
}

// NewErrorPlugin creates a new error plugin that returns the given error on Start()
func NewErrorPlugin(err error) Plugin {
	return &ErrorPlugin{Err: err}
}

// StartPlugin creates a plugin instance from the registry, hands it the
// logger and metrics registry when it accepts them, and starts it
func StartPlugin(
	pluginType PluginType,
	pluginName string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (Plugin, error) {
	p := GetPlugin(pluginType, pluginName)
	if p == nil {
		return nil, &PluginNotFoundError{
			Type: pluginType,
			Name: pluginName,
		}
	}
	if inst, ok := p.(Instrumentable); ok {
		if logger != nil {
			inst.SetLogger(logger)
		}
		if promRegistry != nil {
			inst.SetPromRegistry(promRegistry)
		}
	}
	if err := p.Start(); err != nil {
		return nil, fmt.Errorf(
			"failed to start %s plugin '%s': %w",
			PluginTypeName(pluginType),
			pluginName,
			err,
		)
	}
	return p, nil
}
