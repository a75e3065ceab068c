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
	"log/slog"
	"os"

	"github.com/blinklabs-io/govrealm/governance"
	"github.com/blinklabs-io/govrealm/internal/node"
	"github.com/spf13/cobra"
)

type showOutput struct {
	Proposal     *governance.Proposal              `json:"proposal"`
	Transactions []*governance.ProposalTransaction `json:"transactions"`
}

func showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <proposal>",
		Short: "Show a proposal with its option counters and transactions",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg := configFromCommand(cmd)
			logger := commonRun()
			address, err := governance.ParsePublicKey(args[0])
			if err != nil {
				exitWithError(err)
			}
			ls, err := node.OpenLedger(cfg, logger)
			if err != nil {
				exitWithError(err)
			}
			defer ls.Close()
			proposal, err := ls.GetProposal(cmd.Context(), address)
			if err != nil {
				_ = ls.Close()
				exitWithError(err)
			}
			txs, err := ls.GetProposalTransactions(cmd.Context(), address)
			if err != nil {
				_ = ls.Close()
				exitWithError(err)
			}
			if err := printJSON(os.Stdout, showOutput{Proposal: proposal, Transactions: txs}); err != nil {
				slog.Error(err.Error())
			}
		},
	}
	return cmd
}
