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

package governance

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

const proposalTransactionAddressTag = "governance/proposal-transaction"

// ProposalTransactionAddress derives the address of the transaction
// record stored at (proposal, option, index)
func ProposalTransactionAddress(
	proposal PublicKey,
	optionIndex uint8,
	transactionIndex uint16,
) PublicKey {
	buf := make([]byte, 0, len(proposalTransactionAddressTag)+PublicKeySize+3)
	buf = append(buf, proposalTransactionAddressTag...)
	buf = append(buf, proposal[:]...)
	buf = append(buf, optionIndex)
	buf = binary.LittleEndian.AppendUint16(buf, transactionIndex)
	return PublicKey(blake2b.Sum256(buf))
}
