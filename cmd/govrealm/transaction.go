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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/blinklabs-io/govrealm/internal/fixture"
	"github.com/blinklabs-io/govrealm/internal/node"
	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError reports a rejection with its kind and exits non-zero
func exitWithError(err error) {
	if gErr, ok := governance.AsError(err); ok {
		slog.Error(
			"request rejected",
			"kind", gErr.Kind(),
			"code", gErr.Code(),
			"error", gErr.Error(),
		)
	} else {
		slog.Error(err.Error())
	}
	os.Exit(1)
}

func insertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <request.yaml>",
		Short: "Insert a transaction into a proposal option",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			logger := commonRun()
			req, err := fixture.LoadInsertRequest(args[0])
			if err != nil {
				exitWithError(err)
			}
			ls, err := node.OpenLedger(cfg, logger)
			if err != nil {
				exitWithError(err)
			}
			defer ls.Close()
			ptx, err := ls.InsertTransaction(cmd.Context(), req)
			if err != nil {
				_ = ls.Close()
				exitWithError(err)
			}
			if err := printJSON(os.Stdout, ptx); err != nil {
				slog.Error(err.Error())
			}
		},
	}
	return cmd
}

func removeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <request.yaml>",
		Short: "Remove a transaction from a proposal option",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			logger := commonRun()
			req, err := fixture.LoadRemoveRequest(args[0])
			if err != nil {
				exitWithError(err)
			}
			ls, err := node.OpenLedger(cfg, logger)
			if err != nil {
				exitWithError(err)
			}
			defer ls.Close()
			if err := ls.RemoveTransaction(cmd.Context(), req); err != nil {
				_ = ls.Close()
				exitWithError(err)
			}
			fmt.Printf(
				"removed transaction %d from option %d of proposal %s\n",
				req.Index,
				req.OptionIndex,
				req.Proposal,
			)
		},
	}
	return cmd
}
