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

package ledger

import (
	"github.com/blinklabs-io/govrealm/event"
	"github.com/blinklabs-io/govrealm/governance"
)

const (
	TransactionInsertedEventType event.EventType = "governance.transaction_inserted"
	TransactionRemovedEventType  event.EventType = "governance.transaction_removed"
)

type TransactionInsertedEvent struct {
	Transaction *governance.ProposalTransaction
	Option      governance.ProposalOption
}

type TransactionRemovedEvent struct {
	Address          governance.PublicKey
	Proposal         governance.PublicKey
	OptionIndex      uint8
	TransactionIndex uint16
	Option           governance.ProposalOption
}

func (ls *LedgerState) publish(eventType event.EventType, data any) {
	if ls.config.EventBus == nil {
		return
	}
	ls.config.EventBus.Publish(eventType, event.NewEvent(eventType, data))
}
