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

package api

import "github.com/blinklabs-io/govrealm/governance"

type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is returned for every failed request. Code is the
// governance error code for rejections and the HTTP status otherwise.
type ErrorResponse struct {
	Code    uint32 `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// InsertTransactionRequest is the body of a transaction insertion. The
// proposal is taken from the request path.
type InsertTransactionRequest struct {
	Governance       governance.PublicKey `json:"governance"`
	TokenOwnerRecord governance.PublicKey `json:"token_owner_record"`
	Signer           governance.PublicKey `json:"signer"`
	OptionIndex      uint8                `json:"option_index"`
	Index            uint16               `json:"index"`
	HoldUpTime       uint32               `json:"hold_up_time"`
	Actions          []governance.Action  `json:"actions"`
}

// RemoveTransactionRequest is the body of a transaction removal. The
// slot is taken from the request path.
type RemoveTransactionRequest struct {
	TokenOwnerRecord governance.PublicKey `json:"token_owner_record"`
	Signer           governance.PublicKey `json:"signer"`
}
