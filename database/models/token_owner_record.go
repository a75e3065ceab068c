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

package models

import "errors"

var ErrTokenOwnerRecordNotFound = errors.New("token owner record not found")

type TokenOwnerRecord struct {
	ID                  uint   `gorm:"primarykey"`
	Address             []byte `gorm:"uniqueIndex;size:32;not null"`
	Realm               []byte `gorm:"index;size:32;not null"`
	GoverningTokenMint  []byte `gorm:"size:32;not null"`
	GoverningTokenOwner []byte `gorm:"index;size:32;not null"`
	GovernanceDelegate  []byte `gorm:"size:32"`
}

func (TokenOwnerRecord) TableName() string {
	return "token_owner_record"
}
