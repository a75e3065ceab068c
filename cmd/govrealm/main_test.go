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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPlugins(t *testing.T) {
	shouldExit, output := listPlugins("badger", "sqlite")
	assert.False(t, shouldExit)
	assert.Empty(t, output)
	shouldExit, output = listPlugins("list", "list")
	assert.True(t, shouldExit)
	assert.Contains(t, output, "Available blob plugins:")
	assert.Contains(t, output, "badger:")
	assert.Contains(t, output, "Available metadata plugins:")
	assert.Contains(t, output, "sqlite:")
	assert.Contains(t, output, "postgres:")
}

func TestListAllPlugins(t *testing.T) {
	output := listAllPlugins()
	blobIdx := strings.Index(output, "Blob Storage Plugins:")
	metaIdx := strings.Index(output, "Metadata Storage Plugins:")
	require.NotEqual(t, -1, blobIdx)
	require.NotEqual(t, -1, metaIdx)
	assert.Less(t, blobIdx, metaIdx)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, governance.ProposalOption{Label: "yes"}))
	assert.Contains(t, buf.String(), `"label": "yes"`)
	assert.Error(t, printJSON(&buf, map[string]any{"bad": func() {}}))
}
