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

package gormstore

import (
	"github.com/blinklabs-io/govrealm/database/models"
	"github.com/blinklabs-io/govrealm/database/types"
	"gorm.io/gorm/clause"
)

func (s *Store) GetCommitTimestamp() (int64, error) {
	var tmp models.CommitTimestamp
	result := s.db.Where("id = ?", models.CommitTimestampRowId).First(&tmp)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return 0, nil
		}
		return 0, result.Error
	}
	return tmp.Timestamp, nil
}

func (s *Store) SetCommitTimestamp(timestamp int64, txn types.Txn) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	db, err := s.resolveDB(txn)
	if err != nil {
		return err
	}
	tmp := models.CommitTimestamp{
		ID:        models.CommitTimestampRowId,
		Timestamp: timestamp,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"timestamp"}),
	}).Create(&tmp)
	return result.Error
}
