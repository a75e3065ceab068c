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

// TokenOwnerRecord tracks a governing token holder within a realm
type TokenOwnerRecord struct {
	Address             PublicKey  `json:"address"`
	Realm               PublicKey  `json:"realm"`
	GoverningTokenMint  PublicKey  `json:"governing_token_mint"`
	GoverningTokenOwner PublicKey  `json:"governing_token_owner"`
	GovernanceDelegate  *PublicKey `json:"governance_delegate,omitempty"`
}

// IsAuthorizedSigner reports whether the key is the owner or the
// delegate of the record
func (r *TokenOwnerRecord) IsAuthorizedSigner(signer PublicKey) bool {
	if signer == r.GoverningTokenOwner {
		return true
	}
	return r.GovernanceDelegate != nil && signer == *r.GovernanceDelegate
}

func (r *TokenOwnerRecord) AssertTokenOwnerOrDelegateIsSigner(
	signer PublicKey,
) error {
	if !r.IsAuthorizedSigner(signer) {
		return ErrGoverningTokenOwnerOrDelegateMustSign
	}
	return nil
}
