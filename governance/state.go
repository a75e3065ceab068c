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
	"fmt"
	"strings"
)

// ProposalState is the lifecycle position of a proposal
type ProposalState uint8

const (
	ProposalStateDraft ProposalState = iota
	ProposalStateSignedOff
	ProposalStateVoting
	ProposalStateSucceeded
	ProposalStateDefeated
	ProposalStateExecuting
	ProposalStateCompleted
	ProposalStateCancelled
)

var proposalStateNames = []string{
	"Draft",
	"SignedOff",
	"Voting",
	"Succeeded",
	"Defeated",
	"Executing",
	"Completed",
	"Cancelled",
}

func (s ProposalState) String() string {
	if int(s) < len(proposalStateNames) {
		return proposalStateNames[s]
	}
	return fmt.Sprintf("ProposalState(%d)", uint8(s))
}

func (s ProposalState) Valid() bool {
	return int(s) < len(proposalStateNames)
}

// Editable reports whether transactions can be attached to or removed
// from a proposal in this state. Only drafts are editable.
func (s ProposalState) Editable() bool {
	return s == ProposalStateDraft
}

func ParseProposalState(s string) (ProposalState, error) {
	for i, name := range proposalStateNames {
		if strings.EqualFold(name, s) {
			return ProposalState(i), nil
		}
	}
	return 0, fmt.Errorf("unknown proposal state: %q", s)
}

func (s ProposalState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown proposal state: %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *ProposalState) UnmarshalText(data []byte) error {
	tmp, err := ParseProposalState(string(data))
	if err != nil {
		return err
	}
	*s = tmp
	return nil
}
